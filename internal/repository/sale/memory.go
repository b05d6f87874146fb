package sale

import (
	"context"
	"sync"

	"tea-referrals/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	items []domain.Sale
}

// NewMemory returns an in-memory Repository.
func NewMemory() Repository {
	return &memoryRepo{}
}

func (r *memoryRepo) Insert(_ context.Context, s domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, s)
	return nil
}

func (r *memoryRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Sale
	for _, s := range r.items {
		if s.CustomerID == customerID {
			out = append(out, s)
		}
	}
	return out, nil
}
