package referral

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

const codeColumns = `code, owner_id, owner_name, owner_phone, status, used_by_id, used_by_name, used_by_phone, used_at`

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

func (r *postgresRepo) InsertBatch(ctx context.Context, codes []domain.ReferralCode) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO referral_codes (code, owner_id, owner_name, owner_phone, status)
VALUES ($1, $2, $3, $4, $5)
`
	for _, c := range codes {
		if _, err := tx.Exec(ctx, q, c.Code, c.OwnerID, c.OwnerName, c.OwnerPhone, string(c.Status)); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrAlreadyExists
			}
			r.logger.Printf("referral repo: insert code=%s err=%v", c.Code, err)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.ReferralCode, error) {
	const q = `SELECT ` + codeColumns + ` FROM referral_codes WHERE code = $1 LIMIT 1`
	return r.scanCode(r.pool.QueryRow(ctx, q, code))
}

func (r *postgresRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.ReferralCode, error) {
	const q = `SELECT ` + codeColumns + ` FROM referral_codes WHERE owner_id = $1 ORDER BY seq`
	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReferralCode
	for rows.Next() {
		c, err := r.scanCode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) MarkUsed(ctx context.Context, code string, usage domain.CodeUsage) error {
	const q = `
UPDATE referral_codes
SET status = $2, used_by_id = $3, used_by_name = $4, used_by_phone = $5, used_at = $6
WHERE code = $1
`
	tag, err := r.pool.Exec(ctx, q, code, string(domain.CodeUsed), usage.CustomerID, usage.Name, usage.Phone, usage.At)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) CountUsedByOwner(ctx context.Context, ownerID string) (int, error) {
	const q = `SELECT count(*) FROM referral_codes WHERE owner_id = $1 AND status = $2`
	var n int
	if err := r.pool.QueryRow(ctx, q, ownerID, string(domain.CodeUsed)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) Counts(ctx context.Context) (Counts, error) {
	const q = `SELECT count(*), count(*) FILTER (WHERE status = $1) FROM referral_codes`
	var c Counts
	if err := r.pool.QueryRow(ctx, q, string(domain.CodeUsed)).Scan(&c.Total, &c.Used); err != nil {
		return Counts{}, err
	}
	return c, nil
}

func (r *postgresRepo) scanCode(row pgx.Row) (*domain.ReferralCode, error) {
	var c domain.ReferralCode
	var status string
	err := row.Scan(
		&c.Code,
		&c.OwnerID,
		&c.OwnerName,
		&c.OwnerPhone,
		&status,
		&c.UsedByID,
		&c.UsedByName,
		&c.UsedByPhone,
		&c.UsedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("referral repo: scan error=%v", err)
		return nil, err
	}
	c.Status = domain.CodeStatus(status)
	return &c, nil
}
