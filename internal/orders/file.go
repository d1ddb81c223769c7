package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileStore persists orders as a JSON array in a single flat file. It is the
// degraded local substitute used when DynamoDB is unreachable or unconfigured.
//
// Known limitation: the read-modify-write cycle has no locking, so concurrent
// writers can lose an update (last write wins). Acceptable for the expected
// access pattern of manual admin actions and single payment confirmations;
// not safe under load.
type FileStore struct {
	path    string
	nowFunc func() time.Time
}

// NewFileStore returns a store writing to path. The file is created empty on
// first use if absent.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, nowFunc: time.Now}
}

func (s *FileStore) ensureFile() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create orders dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("create orders file: %w", err)
	}
	return nil
}

func (s *FileStore) read() ([]Order, error) {
	if err := s.ensureFile(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read orders file: %w", err)
	}
	var out []Order
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode orders file: %w", err)
	}
	return out, nil
}

func (s *FileStore) write(all []Order) error {
	raw, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write orders file: %w", err)
	}
	return nil
}

// List returns all orders newest-first. The file is kept in insertion order
// with new orders prepended, but sorting by creation time guards against
// records written out of order.
func (s *FileStore) List(ctx context.Context) ([]Order, error) {
	all, err := s.read()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// Upsert merges the order into the file. A record with the same id is
// rewritten in place with zero-valued incoming fields preserved; a new order
// is prepended. Re-submitting a payment id under a different order id fails
// with ErrDuplicatePayment.
func (s *FileStore) Upsert(ctx context.Context, o Order) error {
	all, err := s.read()
	if err != nil {
		return err
	}

	for i, existing := range all {
		if existing.ID == o.ID {
			all[i] = mergeOrder(existing, o)
			return s.write(all)
		}
		if o.GatewayPaymentID != "" && existing.GatewayPaymentID == o.GatewayPaymentID {
			return fmt.Errorf("payment %s: %w", o.GatewayPaymentID, ErrDuplicatePayment)
		}
	}

	all = append([]Order{o}, all...)
	return s.write(all)
}

// UpdateStatus sets status and updatedAt on the matching record. Returns
// ErrOrderNotFound when no record carries the id.
func (s *FileStore) UpdateStatus(ctx context.Context, id, status string) error {
	all, err := s.read()
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == id {
			all[i].Status = status
			all[i].UpdatedAt = s.nowFunc()
			return s.write(all)
		}
	}
	return ErrOrderNotFound
}

// FindByPaymentID scans the file for the order capturing the payment id.
func (s *FileStore) FindByPaymentID(ctx context.Context, paymentID string) (*Order, error) {
	all, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].GatewayPaymentID == paymentID {
			return &all[i], nil
		}
	}
	return nil, nil
}

var _ Repository = (*FileStore)(nil)
