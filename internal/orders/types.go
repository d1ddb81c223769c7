package orders

import "time"

// Order statuses. The status field is a closed set but there is no transition
// table: the admin path may move any status to any other.
const (
	StatusPaid       = "paid"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether s is a member of the status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusPaid, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Customer is the checkout shipping/contact snapshot embedded in an order.
// Immutable after order creation; there is no edit flow.
type Customer struct {
	FirstName string `json:"firstName" dynamodbav:"first_name" validate:"required"`
	LastName  string `json:"lastName" dynamodbav:"last_name" validate:"required"`
	Email     string `json:"email" dynamodbav:"email" validate:"required,email"`
	Phone     string `json:"phone" dynamodbav:"phone" validate:"required"`
	Address   string `json:"address" dynamodbav:"address" validate:"required"`
	City      string `json:"city" dynamodbav:"city" validate:"required"`
	State     string `json:"state" dynamodbav:"state" validate:"required"`
	Pincode   string `json:"pincode" dynamodbav:"pincode" validate:"required"`
	Country   string `json:"country" dynamodbav:"country" validate:"required"`
}

// LineItem is the canonical line-item shape persisted in an order. The raw
// client payload carries several optional fallback fields for product id, name,
// price and sku; normalization collapses them into this shape once at ingestion.
// Price is a point-in-time snapshot and must not track later catalog changes.
type LineItem struct {
	ProductID   string  `json:"productId" dynamodbav:"product_id"`
	ProductName string  `json:"productName" dynamodbav:"product_name"`
	SKU         string  `json:"sku" dynamodbav:"sku,omitempty"`
	Size        string  `json:"size" dynamodbav:"size,omitempty"`
	Quantity    int     `json:"quantity" dynamodbav:"quantity"`
	Price       float64 `json:"price" dynamodbav:"price"`
}

// Order represents one completed, payment-verified checkout. It is the item
// stored in the orders DynamoDB table and in the fallback JSON file.
type Order struct {
	ID               string     `json:"id" dynamodbav:"order_id"` // PK
	GatewayOrderID   string     `json:"gatewayOrderId" dynamodbav:"gateway_order_id"`
	GatewayPaymentID string     `json:"gatewayPaymentId" dynamodbav:"gateway_payment_id"`
	Amount           float64    `json:"amount" dynamodbav:"amount"`
	Customer         Customer   `json:"customer" dynamodbav:"customer"`
	Items            []LineItem `json:"items" dynamodbav:"items"`
	Status           string     `json:"status" dynamodbav:"status"`
	CreatedAt        time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
}
