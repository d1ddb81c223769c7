package orders

// RawProduct is the optional embedded catalog reference a client may attach to
// a cart line.
type RawProduct struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	SKU       string   `json:"sku"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"salePrice"`
}

// RawItem is the line-item shape as submitted by the checkout client. Several
// fields are duplicated across the item and its embedded product; which one is
// populated depends on where the cart entry came from.
type RawItem struct {
	ID           string      `json:"id"`
	ProductID    string      `json:"productId"`
	ProductName  string      `json:"productName"`
	SKU          string      `json:"sku"`
	Size         string      `json:"size"`
	SelectedSize string      `json:"selectedSize"`
	Quantity     int         `json:"quantity"`
	Price        *float64    `json:"price"`
	Product      *RawProduct `json:"product"`
}

// NormalizeItems collapses raw cart lines into canonical LineItems. Each
// fallback chain takes the first populated value; only the canonical shape is
// persisted, never the raw payload.
func NormalizeItems(raw []RawItem) []LineItem {
	items := make([]LineItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, LineItem{
			ProductID:   r.productKey(),
			ProductName: r.productName(),
			SKU:         r.sku(),
			Size:        r.size(),
			Quantity:    r.quantity(),
			Price:       r.unitPrice(),
		})
	}
	return items
}

func (r RawItem) productKey() string {
	if r.Product != nil && r.Product.ID != "" {
		return r.Product.ID
	}
	if r.ProductID != "" {
		return r.ProductID
	}
	if r.ID != "" {
		return r.ID
	}
	return "unknown"
}

func (r RawItem) productName() string {
	if r.Product != nil && r.Product.Title != "" {
		return r.Product.Title
	}
	if r.ProductName != "" {
		return r.ProductName
	}
	return "Unknown"
}

func (r RawItem) sku() string {
	if r.SKU != "" {
		return r.SKU
	}
	if r.Product != nil && r.Product.SKU != "" {
		return r.Product.SKU
	}
	return r.ProductID
}

func (r RawItem) size() string {
	if r.Size != "" {
		return r.Size
	}
	return r.SelectedSize
}

func (r RawItem) quantity() int {
	if r.Quantity <= 0 {
		return 1
	}
	return r.Quantity
}

// unitPrice resolves the snapshot price: explicit line price, then sale price,
// then list price, then 0. First populated value wins.
func (r RawItem) unitPrice() float64 {
	if r.Price != nil {
		return *r.Price
	}
	if r.Product != nil {
		if r.Product.SalePrice != nil {
			return *r.Product.SalePrice
		}
		return r.Product.Price
	}
	return 0
}
