package orders

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubRepo is a scriptable Repository used to drive the fallback decorator.
type stubRepo struct {
	orders    []Order
	err       error
	upserted  []Order
	statusSet map[string]string
}

func (s *stubRepo) List(ctx context.Context) ([]Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.orders, nil
}

func (s *stubRepo) Upsert(ctx context.Context, o Order) error {
	if s.err != nil {
		return s.err
	}
	s.upserted = append(s.upserted, o)
	return nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if s.err != nil {
		return s.err
	}
	for _, o := range s.orders {
		if o.ID == id {
			if s.statusSet == nil {
				s.statusSet = map[string]string{}
			}
			s.statusSet[id] = status
			return nil
		}
	}
	return ErrOrderNotFound
}

func (s *stubRepo) FindByPaymentID(ctx context.Context, paymentID string) (*Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.orders {
		if s.orders[i].GatewayPaymentID == paymentID {
			return &s.orders[i], nil
		}
	}
	return nil, nil
}

var errDown = errors.New("backend down")

func TestFallback_ListUsesSecondaryOnPrimaryFailure(t *testing.T) {
	want := testOrder("ord_1", "pay_1", time.Now().UTC())
	f := NewFallback(
		&stubRepo{err: errDown},
		&stubRepo{orders: []Order{want}},
	)

	list, err := f.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "ord_1" {
		t.Fatalf("expected fallback order, got %+v", list)
	}
}

func TestFallback_ListDegradesToEmptyWhenBothFail(t *testing.T) {
	f := NewFallback(&stubRepo{err: errDown}, &stubRepo{err: errDown})

	list, err := f.List(context.Background())
	if err != nil {
		t.Fatalf("degrade policy must not surface read errors, got %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
}

func TestFallback_ListSurfacesWhenConfigured(t *testing.T) {
	f := NewFallback(&stubRepo{err: errDown}, &stubRepo{err: errDown})
	f.Reads = SurfaceReadErrors

	if _, err := f.List(context.Background()); err == nil {
		t.Fatal("expected surfaced read error")
	}
}

func TestFallback_UpsertFallsBackAndSurfacesTotalFailure(t *testing.T) {
	secondary := &stubRepo{}
	f := NewFallback(&stubRepo{err: errDown}, secondary)

	o := testOrder("ord_1", "pay_1", time.Now().UTC())
	if err := f.Upsert(context.Background(), o); err != nil {
		t.Fatalf("upsert with healthy fallback: %v", err)
	}
	if len(secondary.upserted) != 1 {
		t.Fatal("expected write to land in secondary")
	}

	both := NewFallback(&stubRepo{err: errDown}, &stubRepo{err: errDown})
	if err := both.Upsert(context.Background(), o); err == nil {
		t.Fatal("expected write failure to surface when both backends fail")
	}
}

func TestFallback_UpsertDoesNotMaskDuplicatePayment(t *testing.T) {
	f := NewFallback(&stubRepo{err: ErrDuplicatePayment}, &stubRepo{})

	err := f.Upsert(context.Background(), testOrder("ord_1", "pay_1", time.Now().UTC()))
	if !errors.Is(err, ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment to propagate, got %v", err)
	}
}

func TestFallback_UpdateStatusLocatesOrderInEitherBackend(t *testing.T) {
	inSecondary := testOrder("ord_2", "pay_2", time.Now().UTC())
	secondary := &stubRepo{orders: []Order{inSecondary}}
	f := NewFallback(&stubRepo{}, secondary)

	if err := f.UpdateStatus(context.Background(), "ord_2", StatusShipped); err != nil {
		t.Fatalf("update via secondary: %v", err)
	}
	if secondary.statusSet["ord_2"] != StatusShipped {
		t.Fatal("expected status written to secondary")
	}
}

func TestFallback_UpdateStatusNotFoundInBoth(t *testing.T) {
	f := NewFallback(&stubRepo{}, &stubRepo{})

	err := f.UpdateStatus(context.Background(), "ord_missing", StatusShipped)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestFallback_FindByPaymentIDChecksSecondary(t *testing.T) {
	want := testOrder("ord_1", "pay_1", time.Now().UTC())
	f := NewFallback(&stubRepo{err: errDown}, &stubRepo{orders: []Order{want}})

	got, err := f.FindByPaymentID(context.Background(), "pay_1")
	if err != nil || got == nil || got.ID != "ord_1" {
		t.Fatalf("expected fallback hit, got %+v err=%v", got, err)
	}
}
