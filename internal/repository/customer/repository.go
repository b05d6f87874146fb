package customer

import (
	"context"

	"tea-referrals/internal/domain"
)

// Repository persists and fetches customers. Search results preserve
// insertion order and match case-insensitive substrings.
type Repository interface {
	Insert(ctx context.Context, c domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	SearchByID(ctx context.Context, term string) ([]domain.Customer, error)
	SearchByName(ctx context.Context, term string) ([]domain.Customer, error)
	SearchByPhone(ctx context.Context, term string) ([]domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Count(ctx context.Context) (int, error)
	SetProgress(ctx context.Context, id string, completed int, discountEarned bool) error
	IncrementPurchases(ctx context.Context, id string) error
}
