package sale

import (
	"context"

	"tea-referrals/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Insert(ctx context.Context, s domain.Sale) error {
	const q = `
INSERT INTO sales (id, customer_id, customer_name, sale_date, items, amount_cents, discount_applied, discount_cents, referral_code_used, payment_method)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := r.pool.Exec(ctx, q,
		s.ID, s.CustomerID, s.CustomerName, s.SaleDate, s.Items,
		s.AmountCents, s.DiscountApplied, s.DiscountCents, s.ReferralCodeUsed, s.PaymentMethod,
	)
	return err
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Sale, error) {
	const q = `
SELECT id::text, customer_id, customer_name, sale_date, items, amount_cents, discount_applied, discount_cents, referral_code_used, payment_method
FROM sales
WHERE customer_id = $1
ORDER BY seq
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Sale
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(
			&s.ID, &s.CustomerID, &s.CustomerName, &s.SaleDate, &s.Items,
			&s.AmountCents, &s.DiscountApplied, &s.DiscountCents, &s.ReferralCodeUsed, &s.PaymentMethod,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
