package sale

import (
	"context"

	"tea-referrals/internal/domain"
)

// Repository appends and lists sales. The log is append-only; no update or
// delete operations exist.
type Repository interface {
	Insert(ctx context.Context, s domain.Sale) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Sale, error)
}
