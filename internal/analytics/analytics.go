// Package analytics derives admin dashboard statistics from the full order
// set. Everything is recomputed per request; there is no materialized view.
// O(orders x items) per call, acceptable while order volume stays small.
package analytics

import (
	"sort"

	"github.com/vaibhav2932000/srijan/internal/orders"
)

const topProductsLimit = 10

// ProductSales accumulates units sold and revenue for one product.
type ProductSales struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Sales       int     `json:"sales"`
	Revenue     float64 `json:"revenue"`
}

// MonthlyBucket aggregates revenue and order count for one calendar month.
type MonthlyBucket struct {
	Month   string  `json:"month"` // "YYYY-MM"
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// Snapshot is the analytics payload returned to the admin dashboard. It is a
// pure function of the order set at request time and is never persisted.
type Snapshot struct {
	TotalRevenue       float64         `json:"totalRevenue"`
	TotalOrders        int             `json:"totalOrders"`
	AverageOrderValue  float64         `json:"averageOrderValue"`
	TopSellingProducts []ProductSales  `json:"topSellingProducts"`
	MonthlySales       []MonthlyBucket `json:"monthlySales"`
}

// Compute scans all orders and builds the snapshot.
func Compute(all []orders.Order) Snapshot {
	snap := Snapshot{
		TotalOrders:        len(all),
		TopSellingProducts: []ProductSales{},
		MonthlySales:       []MonthlyBucket{},
	}

	for _, o := range all {
		snap.TotalRevenue += o.Amount
	}
	if snap.TotalOrders > 0 {
		snap.AverageOrderValue = snap.TotalRevenue / float64(snap.TotalOrders)
	}

	// Per-product aggregation, keyed by product id. Insertion order is kept so
	// revenue ties rank by first encounter.
	perProduct := map[string]*ProductSales{}
	var productOrder []string
	for _, o := range all {
		for _, item := range o.Items {
			key := item.ProductID
			if key == "" {
				key = "unknown"
			}
			name := item.ProductName
			if name == "" {
				name = "Unknown"
			}
			ps, ok := perProduct[key]
			if !ok {
				ps = &ProductSales{ProductID: key, ProductName: name}
				perProduct[key] = ps
				productOrder = append(productOrder, key)
			}
			ps.Sales += item.Quantity
			ps.Revenue += item.Price * float64(item.Quantity)
		}
	}
	for _, key := range productOrder {
		snap.TopSellingProducts = append(snap.TopSellingProducts, *perProduct[key])
	}
	sort.SliceStable(snap.TopSellingProducts, func(i, j int) bool {
		return snap.TopSellingProducts[i].Revenue > snap.TopSellingProducts[j].Revenue
	})
	if len(snap.TopSellingProducts) > topProductsLimit {
		snap.TopSellingProducts = snap.TopSellingProducts[:topProductsLimit]
	}

	// Monthly buckets keyed by the creation month, ascending. The "2006-01"
	// key sorts lexicographically in chronological order.
	perMonth := map[string]*MonthlyBucket{}
	for _, o := range all {
		month := o.CreatedAt.Format("2006-01")
		mb, ok := perMonth[month]
		if !ok {
			mb = &MonthlyBucket{Month: month}
			perMonth[month] = mb
		}
		mb.Revenue += o.Amount
		mb.Orders++
	}
	for _, mb := range perMonth {
		snap.MonthlySales = append(snap.MonthlySales, *mb)
	}
	sort.Slice(snap.MonthlySales, func(i, j int) bool {
		return snap.MonthlySales[i].Month < snap.MonthlySales[j].Month
	})

	return snap
}
