package referral

import (
	"context"
	"sync"

	"tea-referrals/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	items  []domain.ReferralCode
	byCode map[string]int
}

// NewMemory returns an in-memory Repository.
func NewMemory() Repository {
	return &memoryRepo{byCode: make(map[string]int)}
}

func (r *memoryRepo) InsertBatch(_ context.Context, codes []domain.ReferralCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range codes {
		if _, exists := r.byCode[c.Code]; exists {
			return domain.ErrAlreadyExists
		}
	}
	for _, c := range codes {
		r.byCode[c.Code] = len(r.items)
		r.items = append(r.items, c)
	}
	return nil
}

func (r *memoryRepo) GetByCode(_ context.Context, code string) (*domain.ReferralCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := r.items[idx]
	return &clone, nil
}

func (r *memoryRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.ReferralCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ReferralCode
	for _, c := range r.items {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepo) MarkUsed(_ context.Context, code string, usage domain.CodeUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byCode[code]
	if !ok {
		return domain.ErrNotFound
	}
	at := usage.At
	r.items[idx].Status = domain.CodeUsed
	r.items[idx].UsedByID = usage.CustomerID
	r.items[idx].UsedByName = usage.Name
	r.items[idx].UsedByPhone = usage.Phone
	r.items[idx].UsedAt = &at
	return nil
}

func (r *memoryRepo) CountUsedByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, c := range r.items {
		if c.OwnerID == ownerID && c.Status == domain.CodeUsed {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) Counts(_ context.Context) (Counts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := Counts{Total: len(r.items)}
	for _, c := range r.items {
		if c.Status == domain.CodeUsed {
			counts.Used++
		}
	}
	return counts, nil
}
