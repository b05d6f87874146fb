package referral

import (
	"context"

	"tea-referrals/internal/domain"
)

// Counts summarizes the ledger for the reporting queries.
type Counts struct {
	Total int
	Used  int
}

// Repository persists and fetches referral codes. Codes are written in
// batches of three at registration and transition Available to Used once.
type Repository interface {
	InsertBatch(ctx context.Context, codes []domain.ReferralCode) error
	GetByCode(ctx context.Context, code string) (*domain.ReferralCode, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.ReferralCode, error)
	MarkUsed(ctx context.Context, code string, usage domain.CodeUsage) error
	CountUsedByOwner(ctx context.Context, ownerID string) (int, error)
	Counts(ctx context.Context) (Counts, error)
}
