package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vaibhav2932000/srijan/internal/analytics"
	"github.com/vaibhav2932000/srijan/internal/aws"
	"github.com/vaibhav2932000/srijan/internal/export"
	"github.com/vaibhav2932000/srijan/internal/orders"
	"github.com/vaibhav2932000/srijan/internal/payment"
	"github.com/vaibhav2932000/srijan/internal/validation"
)

// HandlerConfig groups dependencies for the order routes. Everything is
// injected here; handlers hold no module-level state.
type HandlerConfig struct {
	DynamoDBClient   aws.DynamoDBAPI
	SQSClient        aws.SQSAPI
	OrdersTable      string
	PaymentKeysTable string
	OrdersFile       string
	QueueURL         string
	GatewayKeyID     string
	GatewaySecret    string
}

// RegisterOrdersRoutes wires the order capture, admin and analytics routes.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	primary := orders.NewDynamoStore(cfg.DynamoDBClient, cfg.OrdersTable, cfg.PaymentKeysTable)
	fallback := orders.NewFileStore(cfg.OrdersFile)
	repo := orders.NewFallback(primary, fallback)
	verifier := payment.NewVerifier(cfg.GatewaySecret)
	gateway := payment.NewGatewayClient(cfg.GatewayKeyID, cfg.GatewaySecret)

	var publisher *aws.Publisher
	if cfg.QueueURL != "" && cfg.SQSClient != nil {
		publisher = aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	}

	api := r.Group("/api")

	// Create a gateway order ahead of checkout.
	api.POST("/orders", func(c *gin.Context) {
		var req validation.CreateGatewayOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		receipt := req.Receipt
		if receipt == "" {
			receipt = "order_" + uuid.NewString()
		}

		order, err := gateway.CreateOrder(c.Request.Context(), req.Amount, req.Currency, receipt)
		if err != nil {
			log.Printf("create gateway order failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "payment service unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	})

	// Payment confirmation: verify the gateway signature, then persist the
	// order. Nothing is written before verification succeeds.
	api.POST("/payments/verify", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.VerifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_request_body"})
			return
		}

		if req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.Signature == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing_payment_fields"})
			return
		}

		if err := verifier.Verify(req.GatewayOrderID, req.GatewayPaymentID, req.Signature); err != nil {
			// Covers a forged signature and an unconfigured secret alike.
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_signature"})
			return
		}

		if err := v.Struct(req.OrderData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation_failed"})
			return
		}

		// Re-submission of an already captured payment returns the existing
		// record instead of creating a duplicate.
		if existing, err := repo.FindByPaymentID(ctx, req.GatewayPaymentID); err == nil && existing != nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "order": existing})
			return
		}

		now := time.Now().UTC()
		order := orders.Order{
			ID:               fmt.Sprintf("ord_%d_%s", now.UnixMilli(), req.GatewayPaymentID),
			GatewayOrderID:   req.GatewayOrderID,
			GatewayPaymentID: req.GatewayPaymentID,
			Amount:           req.OrderData.TotalAmount,
			Customer:         req.OrderData.CustomerDetails,
			Items:            orders.NormalizeItems(req.OrderData.Products),
			Status:           orders.StatusPaid,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := repo.Upsert(ctx, order); err != nil {
			if errors.Is(err, orders.ErrDuplicatePayment) {
				// Lost a race with a concurrent submission of the same payment.
				if existing, ferr := repo.FindByPaymentID(ctx, req.GatewayPaymentID); ferr == nil && existing != nil {
					c.JSON(http.StatusOK, gin.H{"success": true, "order": existing})
					return
				}
			}
			log.Printf("record order %s failed: %v", order.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record order"})
			return
		}

		if publisher != nil {
			payload, _ := json.Marshal(map[string]interface{}{
				"order_id":           order.ID,
				"gateway_payment_id": order.GatewayPaymentID,
				"amount":             order.Amount,
			})
			attrs := map[string]string{
				"order_id":       order.ID,
				"correlation_id": c.GetHeader("X-Request-Id"),
			}
			// Best effort: the order is already durable, fulfillment can be
			// replayed from the admin view if the enqueue fails.
			if err := publisher.SendOrderCaptured(ctx, string(payload), attrs); err != nil {
				log.Printf("enqueue order %s failed: %v", order.ID, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	})

	// Admin order listing, newest first.
	api.GET("/admin/orders", func(c *gin.Context) {
		list, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	})

	// Admin status mutation.
	api.PATCH("/admin/orders", func(c *gin.Context) {
		var req validation.UpdateOrderStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		err := repo.UpdateStatus(c.Request.Context(), req.OrderID, req.Status)
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case err != nil:
			log.Printf("update order %s failed: %v", req.OrderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		default:
			c.JSON(http.StatusOK, gin.H{"success": true})
		}
	})

	// Admin CSV export: one row per (order, item) pair.
	api.GET("/admin/orders/export", func(c *gin.Context) {
		list, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}

		filename := fmt.Sprintf("orders-export-%s.csv", time.Now().UTC().Format("2006-01-02T15-04-05"))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Status(http.StatusOK)

		if err := export.WriteCSV(c.Writer, list); err != nil {
			log.Printf("csv export failed: %v", err)
		}
	})

	// Dashboard analytics, recomputed per request.
	api.GET("/analytics", func(c *gin.Context) {
		list, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute analytics"})
			return
		}
		c.JSON(http.StatusOK, analytics.Compute(list))
	})
}
