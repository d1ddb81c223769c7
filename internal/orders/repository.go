package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrOrderNotFound indicates the targeted order id exists in neither backend.
var ErrOrderNotFound = errors.New("order not found")

// ErrDuplicatePayment indicates the gateway payment id was already captured.
var ErrDuplicatePayment = errors.New("gateway payment already captured")

// Repository defines persistence operations for orders. Two adapters implement
// it (DynamoDB, JSON file); Fallback composes them.
type Repository interface {
	// List returns all orders, newest creation time first.
	List(ctx context.Context) ([]Order, error)
	// Upsert writes or merges one order keyed by its id. Fields absent from a
	// partial update are preserved.
	Upsert(ctx context.Context, o Order) error
	// UpdateStatus sets status and updatedAt on an existing order.
	// Returns ErrOrderNotFound when the id is absent.
	UpdateStatus(ctx context.Context, id, status string) error
	// FindByPaymentID looks up an order by its gateway payment id.
	// Returns (nil, nil) when no order carries that payment id.
	FindByPaymentID(ctx context.Context, paymentID string) (*Order, error)
}

// ReadPolicy controls how Fallback surfaces total read failure.
type ReadPolicy int

const (
	// DegradeReads swallows a both-backends read failure and returns an empty
	// list. Keeps the admin view up during an outage but masks it.
	DegradeReads ReadPolicy = iota
	// SurfaceReadErrors propagates the failure to the caller.
	SurfaceReadErrors
)

// Fallback tries the primary backend first and retries against the secondary
// on any primary failure. Writes always surface a both-backends failure; reads
// follow the configured policy. The asymmetry is deliberate and configurable
// rather than implicit.
type Fallback struct {
	Primary   Repository
	Secondary Repository
	Reads     ReadPolicy
}

// NewFallback composes primary and secondary with the default read policy.
func NewFallback(primary, secondary Repository) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary, Reads: DegradeReads}
}

func (f *Fallback) List(ctx context.Context) ([]Order, error) {
	out, err := f.Primary.List(ctx)
	if err == nil {
		return out, nil
	}
	log.Printf("orders: primary list failed, falling back: %v", err)

	out, err2 := f.Secondary.List(ctx)
	if err2 == nil {
		return out, nil
	}
	if f.Reads == SurfaceReadErrors {
		return nil, fmt.Errorf("list orders: primary: %v, fallback: %w", err, err2)
	}
	log.Printf("orders: fallback list failed, degrading to empty: %v", err2)
	return []Order{}, nil
}

func (f *Fallback) Upsert(ctx context.Context, o Order) error {
	err := f.Primary.Upsert(ctx, o)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDuplicatePayment) {
		return err
	}
	log.Printf("orders: primary upsert failed, falling back: %v", err)

	if err2 := f.Secondary.Upsert(ctx, o); err2 != nil {
		return fmt.Errorf("upsert order %s: primary: %v, fallback: %w", o.ID, err, err2)
	}
	return nil
}

func (f *Fallback) UpdateStatus(ctx context.Context, id, status string) error {
	err := f.Primary.UpdateStatus(ctx, id, status)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrOrderNotFound) {
		log.Printf("orders: primary status update failed, falling back: %v", err)
	}

	err2 := f.Secondary.UpdateStatus(ctx, id, status)
	if err2 == nil {
		return nil
	}
	if errors.Is(err, ErrOrderNotFound) && errors.Is(err2, ErrOrderNotFound) {
		return ErrOrderNotFound
	}
	return fmt.Errorf("update status for %s: primary: %v, fallback: %w", id, err, err2)
}

func (f *Fallback) FindByPaymentID(ctx context.Context, paymentID string) (*Order, error) {
	o, err := f.Primary.FindByPaymentID(ctx, paymentID)
	if err == nil && o != nil {
		return o, nil
	}
	if err != nil {
		log.Printf("orders: primary payment lookup failed, falling back: %v", err)
	}

	o2, err2 := f.Secondary.FindByPaymentID(ctx, paymentID)
	if err2 != nil {
		if err != nil {
			return nil, fmt.Errorf("find payment %s: primary: %v, fallback: %w", paymentID, err, err2)
		}
		return nil, fmt.Errorf("find payment %s: %w", paymentID, err2)
	}
	return o2, nil
}

var _ Repository = (*Fallback)(nil)
