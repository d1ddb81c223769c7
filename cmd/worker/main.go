package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/vaibhav2932000/srijan/internal/aws"
)

func main() {
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	ordersFile := os.Getenv("ORDERS_FILE")
	if ordersFile == "" {
		ordersFile = "data/orders.json"
	}

	p := NewProcessor(clients,
		os.Getenv("ORDERS_TABLE"),
		os.Getenv("PAYMENT_KEYS_TABLE"),
		ordersFile,
		os.Getenv("METRICS_NAMESPACE"),
	)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":"ord_local_1","gateway_payment_id":"pay_local_1","amount":100}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
