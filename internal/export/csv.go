// Package export flattens orders into tabular rows for the admin CSV
// download. Pure and synchronous; operates on an order list already fetched.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vaibhav2932000/srijan/internal/orders"
)

// Header is the column layout of the export, one row per (order, item) pair.
var Header = []string{
	"Order ID",
	"Date Time",
	"Status",
	"Customer Name",
	"Email",
	"Phone",
	"Address",
	"City",
	"State",
	"Pincode",
	"Country",
	"Product Name",
	"SKU",
	"Size",
	"Quantity",
	"Price",
	"Line Total",
	"Order Amount",
}

// Flatten produces one row per line item of every order, carrying the order
// and customer columns on each row.
func Flatten(all []orders.Order) [][]string {
	var rows [][]string
	for _, o := range all {
		for _, item := range o.Items {
			sku := item.SKU
			if sku == "" {
				sku = "—"
			}
			size := item.Size
			if size == "" {
				size = "N/A"
			}
			rows = append(rows, []string{
				o.ID,
				o.CreatedAt.Format("2006-01-02 15:04:05"),
				o.Status,
				o.Customer.FirstName + " " + o.Customer.LastName,
				o.Customer.Email,
				o.Customer.Phone,
				o.Customer.Address,
				o.Customer.City,
				o.Customer.State,
				o.Customer.Pincode,
				o.Customer.Country,
				item.ProductName,
				sku,
				size,
				strconv.Itoa(item.Quantity),
				formatAmount(item.Price),
				formatAmount(item.Price * float64(item.Quantity)),
				formatAmount(o.Amount),
			})
		}
	}
	return rows
}

// WriteCSV streams the header plus flattened rows to w.
func WriteCSV(w io.Writer, all []orders.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range Flatten(all) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
