package validation

import "github.com/vaibhav2932000/srijan/internal/orders"

// CreateGatewayOrderRequest is the payload for POST /api/orders. It precedes
// payment: the gateway registers the order and the client completes checkout
// against it.
type CreateGatewayOrderRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"` // display-unit decimal total
	Currency string  `json:"currency,omitempty"`              // defaults to INR
	Receipt  string  `json:"receipt,omitempty"`               // defaults to a generated receipt
}

// OrderData is the client-declared checkout payload accompanying a payment
// confirmation. Line items arrive in the heterogeneous raw shape and are
// normalized before persistence.
type OrderData struct {
	CustomerDetails orders.Customer  `json:"customerDetails"`
	Products        []orders.RawItem `json:"products" validate:"required,min=1"`
	TotalAmount     float64          `json:"totalAmount" validate:"gte=0"`
}

// VerifyPaymentRequest is the payload for POST /api/payments/verify. The three
// gateway fields are checked by the handler before validation so their absence
// maps to the missing-payment-fields error rather than a generic one.
type VerifyPaymentRequest struct {
	GatewayOrderID   string    `json:"gatewayOrderId"`
	GatewayPaymentID string    `json:"gatewayPaymentId"`
	Signature        string    `json:"signature"`
	OrderData        OrderData `json:"orderData"`
}

// UpdateOrderStatusRequest is the payload for PATCH /api/admin/orders.
type UpdateOrderStatusRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Status  string `json:"status" validate:"required,orderstatus"`
}
