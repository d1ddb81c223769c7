package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vaibhav2932000/srijan/internal/aws"
	"github.com/vaibhav2932000/srijan/internal/handlers"
)

func setupRouter(cfg handlers.HandlerConfig, corsOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if corsOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins: []string{corsOrigin},
			AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "X-Request-Id"},
		}))
	}

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrdersRoutes(r, cfg)

	return r
}

func main() {
	// local development convenience; missing .env is fine
	if os.Getenv("RUN_LOCAL") == "true" {
		_ = godotenv.Load()
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	ordersFile := os.Getenv("ORDERS_FILE")
	if ordersFile == "" {
		ordersFile = "data/orders.json"
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient:   clients.DynamoDB,
		SQSClient:        clients.SQS,
		OrdersTable:      os.Getenv("ORDERS_TABLE"),
		PaymentKeysTable: os.Getenv("PAYMENT_KEYS_TABLE"),
		OrdersFile:       ordersFile,
		QueueURL:         os.Getenv("ORDERS_QUEUE_URL"),
		GatewayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		GatewaySecret:    os.Getenv("RAZORPAY_KEY_SECRET"),
	}

	r := setupRouter(cfg, os.Getenv("CORS_ORIGIN"))

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
