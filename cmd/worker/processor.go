package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/vaibhav2932000/srijan/internal/aws"
	"github.com/vaibhav2932000/srijan/internal/orders"
)

// Processor consumes order-captured SQS messages, hands orders to fulfillment
// (paid -> processing) and emits capture metrics.
type Processor struct {
	repo    orders.Repository
	metrics *aws.MetricsEmitter
}

// NewProcessor creates a worker processor with AWS clients injected. The same
// primary/fallback store composition as the API is used so the worker sees
// whatever backend captured the order.
func NewProcessor(clients *aws.AWSClients, ordersTable, paymentKeysTable, ordersFile, metricsNamespace string) *Processor {
	primary := orders.NewDynamoStore(clients.DynamoDB, ordersTable, paymentKeysTable)
	fallback := orders.NewFileStore(ordersFile)

	var metrics *aws.MetricsEmitter
	if clients.CloudWatch != nil && metricsNamespace != "" {
		metrics = aws.NewMetricsEmitter(clients.CloudWatch, metricsNamespace)
	}

	return &Processor{
		repo:    orders.NewFallback(primary, fallback),
		metrics: metrics,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg OrderCapturedMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received order=%s payment=%s corr=%s",
		msg.OrderID, msg.GatewayPaymentID, msg.CorrelationID)

	err := p.repo.UpdateStatus(ctx, msg.OrderID, orders.StatusProcessing)
	if errors.Is(err, orders.ErrOrderNotFound) {
		// The capture write never landed; nothing to fulfill. DLQ it.
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}
	if err != nil {
		return fmt.Errorf("failed to move order %s to processing: %w", msg.OrderID, err)
	}

	if p.metrics != nil {
		if err := p.metrics.EmitOrderCaptured(ctx, msg.Amount); err != nil {
			// Metrics are advisory; never fail the message over them.
			log.Printf("[worker] metric emit failed for order=%s: %v", msg.OrderID, err)
		}
	}

	log.Printf("[worker] order=%s handed to fulfillment", msg.OrderID)
	return nil
}
