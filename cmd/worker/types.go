package main

// OrderCapturedMessage is the payload sent from API -> SQS -> Worker when a
// payment-verified order has been persisted.
type OrderCapturedMessage struct {
	OrderID          string  `json:"order_id"`
	GatewayPaymentID string  `json:"gateway_payment_id"`
	Amount           float64 `json:"amount"`
	CorrelationID    string  `json:"correlation_id,omitempty"`
}
