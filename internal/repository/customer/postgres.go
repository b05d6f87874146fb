package customer

import (
	"context"
	"errors"
	"io"
	"log"

	"tea-referrals/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const customerColumns = `id, name, phone, registered_at, referrals_completed, discount_earned, referred_by, status, total_purchases, notes`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Insert(ctx context.Context, c domain.Customer) error {
	const q = `
INSERT INTO customers (id, name, phone, registered_at, referrals_completed, discount_earned, referred_by, status, total_purchases, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := r.pool.Exec(ctx, q,
		c.ID, c.Name, c.Phone, c.RegisteredAt, c.ReferralsCompleted,
		c.DiscountEarned, c.ReferredBy, string(c.Status), c.TotalPurchases, c.Notes,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		r.logger.Printf("customer repo: insert id=%s err=%v", c.ID, err)
		return err
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 LIMIT 1`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) SearchByID(ctx context.Context, term string) ([]domain.Customer, error) {
	return r.searchField(ctx, "id", term)
}

func (r *postgresRepo) SearchByName(ctx context.Context, term string) ([]domain.Customer, error) {
	return r.searchField(ctx, "name", term)
}

func (r *postgresRepo) SearchByPhone(ctx context.Context, term string) ([]domain.Customer, error) {
	return r.searchField(ctx, "phone", term)
}

// searchField matches a case-insensitive substring. strpos avoids LIKE
// wildcard escaping for user-supplied terms.
func (r *postgresRepo) searchField(ctx context.Context, field, term string) ([]domain.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers WHERE strpos(lower(` + field + `), lower($1)) > 0 ORDER BY seq`
	rows, err := r.pool.Query(ctx, q, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers ORDER BY seq`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM customers`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) SetProgress(ctx context.Context, id string, completed int, discountEarned bool) error {
	const q = `UPDATE customers SET referrals_completed = $2, discount_earned = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, completed, discountEarned)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) IncrementPurchases(ctx context.Context, id string) error {
	const q = `UPDATE customers SET total_purchases = total_purchases + 1 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) collect(rows pgx.Rows) ([]domain.Customer, error) {
	var out []domain.Customer
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	var status string
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.RegisteredAt,
		&c.ReferralsCompleted,
		&c.DiscountEarned,
		&c.ReferredBy,
		&status,
		&c.TotalPurchases,
		&c.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("customer repo: scan error=%v", err)
		return nil, err
	}
	c.Status = domain.CustomerStatus(status)
	return &c, nil
}
