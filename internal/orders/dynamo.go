package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/vaibhav2932000/srijan/internal/aws"
)

// paymentKey is the item stored in the payment-keys table. One key exists per
// captured gateway payment; the conditional put on it is what makes ingestion
// idempotent against re-submission of the same payment.
type paymentKey struct {
	GatewayPaymentID string    `dynamodbav:"gateway_payment_id"` // PK
	OrderID          string    `dynamodbav:"order_id"`
	CreatedAt        time.Time `dynamodbav:"created_at"`
}

// DynamoStore persists orders in DynamoDB. It is the primary backend.
type DynamoStore struct {
	client           aws.DynamoDBAPI
	tableName        string
	paymentKeysTable string
	nowFunc          func() time.Time
}

// NewDynamoStore creates a DynamoDB-backed order store.
func NewDynamoStore(client aws.DynamoDBAPI, tableName, paymentKeysTable string) *DynamoStore {
	return &DynamoStore{
		client:           client,
		tableName:        tableName,
		paymentKeysTable: paymentKeysTable,
		nowFunc:          time.Now,
	}
}

// List scans the orders table and returns all orders newest-first.
func (s *DynamoStore) List(ctx context.Context) ([]Order, error) {
	var out []Order
	var startKey map[string]types.AttributeValue
	for {
		resp, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &s.tableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}
		for _, item := range resp.Items {
			var o Order
			if err := attributevalue.UnmarshalMap(item, &o); err != nil {
				return nil, fmt.Errorf("unmarshal order: %w", err)
			}
			out = append(out, o)
		}
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		startKey = resp.LastEvaluatedKey
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Upsert writes the order together with its payment key in one transaction.
// The payment-key put is conditioned so that a payment id can only ever map to
// one order id; re-submitting the same payment for a different order fails
// with ErrDuplicatePayment. Re-writing the same order id merges fields: the
// stored record is read first and zero-valued incoming fields are preserved.
func (s *DynamoStore) Upsert(ctx context.Context, o Order) error {
	existing, err := s.get(ctx, o.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		o = mergeOrder(*existing, o)
	}

	orderMap, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	keyMap, err := attributevalue.MarshalMap(paymentKey{
		GatewayPaymentID: o.GatewayPaymentID,
		OrderID:          o.ID,
		CreatedAt:        s.nowFunc(),
	})
	if err != nil {
		return fmt.Errorf("marshal payment key: %w", err)
	}

	input := &dyn.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &s.paymentKeysTable,
					Item:                keyMap,
					ConditionExpression: awsString("attribute_not_exists(gateway_payment_id) OR order_id = :oid"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":oid": &types.AttributeValueMemberS{Value: o.ID},
					},
				},
			},
			{
				Put: &types.Put{
					TableName: &s.tableName,
					Item:      orderMap,
				},
			},
		},
	}

	if _, err := s.client.TransactWriteItems(ctx, input); err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return fmt.Errorf("payment %s: %w", o.GatewayPaymentID, ErrDuplicatePayment)
		}
		return fmt.Errorf("transact write order %s: %w", o.ID, err)
	}
	return nil
}

// UpdateStatus sets status and updated_at on an existing order. Returns
// ErrOrderNotFound when the id is not present.
func (s *DynamoStore) UpdateStatus(ctx context.Context, id, status string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new": &types.AttributeValueMemberS{Value: status},
			":ua":  &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
		},
		ConditionExpression: awsString("attribute_exists(order_id)"),
	}

	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("update order %s: %w", id, err)
	}
	return nil
}

// FindByPaymentID resolves a gateway payment id through the payment-keys table
// to the order it captured. Returns (nil, nil) when the payment is unknown.
func (s *DynamoStore) FindByPaymentID(ctx context.Context, paymentID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.paymentKeysTable,
		Key: map[string]types.AttributeValue{
			"gateway_payment_id": &types.AttributeValueMemberS{Value: paymentID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get payment key: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var key paymentKey
	if err := attributevalue.UnmarshalMap(out.Item, &key); err != nil {
		return nil, fmt.Errorf("unmarshal payment key: %w", err)
	}
	return s.get(ctx, key.OrderID)
}

// get fetches an order by id. Returns (nil, nil) if not found.
func (s *DynamoStore) get(ctx context.Context, id string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// mergeOrder overlays incoming onto existing: populated incoming fields win,
// zero-valued ones keep the stored value. Emulates a document-store merge set.
func mergeOrder(existing, incoming Order) Order {
	out := existing
	if incoming.GatewayOrderID != "" {
		out.GatewayOrderID = incoming.GatewayOrderID
	}
	if incoming.GatewayPaymentID != "" {
		out.GatewayPaymentID = incoming.GatewayPaymentID
	}
	if incoming.Amount != 0 {
		out.Amount = incoming.Amount
	}
	if incoming.Customer != (Customer{}) {
		out.Customer = incoming.Customer
	}
	if len(incoming.Items) > 0 {
		out.Items = incoming.Items
	}
	if incoming.Status != "" {
		out.Status = incoming.Status
	}
	if !incoming.CreatedAt.IsZero() {
		out.CreatedAt = incoming.CreatedAt
	}
	if !incoming.UpdatedAt.IsZero() {
		out.UpdatedAt = incoming.UpdatedAt
	}
	return out
}

func awsString(s string) *string { return &s }

var _ Repository = (*DynamoStore)(nil)
