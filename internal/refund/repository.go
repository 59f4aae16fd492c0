package refund

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/payment"
)

// Check runs against the locked payment and the refunds already issued on it.
type Check func(p *payment.Payment, existing []ledger.RefundRecord) error

type Repository interface {
	// CreateChecked locks the payment, runs check and inserts r only when
	// check returns nil, in one transaction.
	CreateChecked(ctx context.Context, r *Refund, check Check) error
	GetByID(ctx context.Context, id string) (*Refund, error)
	List(ctx context.Context, filter Filter) ([]*Refund, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var columns = []string{
	"r.id", "r.payment_id", "p.booking_id", "r.amount", "r.method", "r.reason", "r.issued_by", "r.created_at",
}

func scan(row pgx.Row, extra ...any) (*Refund, error) {
	var r Refund
	dest := []any{
		&r.ID, &r.PaymentID, &r.BookingID, &r.Amount, &r.Method, &r.Reason, &r.IssuedBy, &r.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *pgxRepository) CreateChecked(ctx context.Context, r *Refund, check Check) error {
	tx, err := repo.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin issue refund failed: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := payment.Lock(ctx, tx, r.PaymentID)
	if err != nil {
		return err
	}

	rows, err := tx.Query(ctx, "SELECT amount FROM public.refunds WHERE payment_id = $1", r.PaymentID)
	if err != nil {
		return fmt.Errorf("load refunds failed: %w", err)
	}
	existing, err := pgx.CollectRows(rows, pgx.RowToStructByPos[ledger.RefundRecord])
	if err != nil {
		return fmt.Errorf("scan refunds failed: %w", err)
	}

	if err := check(p, existing); err != nil {
		return err
	}
	r.BookingID = p.BookingID

	query, args, err := psql.Insert("public.refunds").
		Columns("payment_id", "amount", "method", "reason", "issued_by").
		Values(r.PaymentID, r.Amount, r.Method, r.Reason, r.IssuedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build issue refund query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&r.ID, &r.CreatedAt); err != nil {
		return fmt.Errorf("issue refund failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit issue refund failed: %w", err)
	}
	return nil
}

func (repo *pgxRepository) GetByID(ctx context.Context, id string) (*Refund, error) {
	query, args, err := psql.Select(columns...).
		From("public.refunds r").
		Join("public.payments p ON p.id = r.payment_id").
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get refund query failed: %w", err)
	}

	r, err := scan(repo.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get refund failed: %w", err)
	}
	return r, nil
}

func (repo *pgxRepository) List(ctx context.Context, filter Filter) ([]*Refund, int, error) {
	query := psql.Select(append(columns, "count(*) OVER() AS total_count")...).
		From("public.refunds r").
		Join("public.payments p ON p.id = r.payment_id")

	if filter.PaymentID != "" {
		query = query.Where(squirrel.Eq{"r.payment_id": filter.PaymentID})
	}
	if filter.BookingID != "" {
		query = query.Where(squirrel.Eq{"p.booking_id": filter.BookingID})
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("r.created_at "+orderDir, "r.id")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list refunds query failed: %w", err)
	}

	rows, err := repo.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list refunds failed: %w", err)
	}
	defer rows.Close()

	var refunds []*Refund
	var total int
	for rows.Next() {
		r, err := scan(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan refund failed: %w", err)
		}
		refunds = append(refunds, r)
	}
	return refunds, total, rows.Err()
}
