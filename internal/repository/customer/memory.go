package customer

import (
	"context"
	"strings"
	"sync"

	"tea-referrals/internal/domain"
)

// memoryRepo keeps customers in insertion order. It backs the service when no
// database is configured: an empty process starts with empty-but-valid stores.
type memoryRepo struct {
	mu    sync.RWMutex
	items []domain.Customer
	byID  map[string]int
}

// NewMemory returns an in-memory Repository.
func NewMemory() Repository {
	return &memoryRepo{byID: make(map[string]int)}
}

func (r *memoryRepo) Insert(_ context.Context, c domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[c.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.byID[c.ID] = len(r.items)
	r.items = append(r.items, c)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := r.items[idx]
	return &clone, nil
}

func (r *memoryRepo) SearchByID(_ context.Context, term string) ([]domain.Customer, error) {
	return r.search(func(c domain.Customer) string { return c.ID }, term), nil
}

func (r *memoryRepo) SearchByName(_ context.Context, term string) ([]domain.Customer, error) {
	return r.search(func(c domain.Customer) string { return c.Name }, term), nil
}

func (r *memoryRepo) SearchByPhone(_ context.Context, term string) ([]domain.Customer, error) {
	return r.search(func(c domain.Customer) string { return c.Phone }, term), nil
}

func (r *memoryRepo) search(field func(domain.Customer) string, term string) []domain.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(term)
	var out []domain.Customer
	for _, c := range r.items {
		if strings.Contains(strings.ToLower(field(c)), needle) {
			out = append(out, c)
		}
	}
	return out
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Customer, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *memoryRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *memoryRepo) SetProgress(_ context.Context, id string, completed int, discountEarned bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.items[idx].ReferralsCompleted = completed
	r.items[idx].DiscountEarned = discountEarned
	return nil
}

func (r *memoryRepo) IncrementPurchases(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.items[idx].TotalPurchases++
	return nil
}
