package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rebooking"
)

// State is what a new payment is checked against. It is read while the
// booking row (and the rebooking row, for rebooking payments) is locked.
type State struct {
	Booking *booking.Booking
	// Rebooking is set for rebooking payments. Its Payments hold the
	// payments already made against it.
	Rebooking *rebooking.Rebooking
}

type Repository interface {
	// CreateChecked locks the booking, loads State, runs check and inserts p
	// only when check returns nil. Everything happens in one transaction.
	CreateChecked(ctx context.Context, p *Payment, check func(State) error) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	List(ctx context.Context, filter Filter) ([]*Payment, int, error)
	// SetReceipt attaches a receipt file and returns the one it replaced.
	SetReceipt(ctx context.Context, id, fileID string) (previous *string, err error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var columns = []string{
	"id", "booking_id", "rebooking_id", "amount", "is_down_payment", "is_rebooking_payment",
	"method", "reference_number", "receipt_file_id", "paid_at", "recorded_by", "created_at",
}

func scan(row pgx.Row, extra ...any) (*Payment, error) {
	var p Payment
	dest := []any{
		&p.ID, &p.BookingID, &p.RebookingID, &p.Amount, &p.IsDownPayment, &p.IsRebookingPayment,
		&p.Method, &p.ReferenceNumber, &p.ReceiptFileID, &p.PaidAt, &p.RecordedBy, &p.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgxRepository) CreateChecked(ctx context.Context, p *Payment, check func(State) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin record payment failed: %w", err)
	}
	defer tx.Rollback(ctx)

	state, err := lockState(ctx, tx, p.BookingID, p.RebookingID)
	if err != nil {
		return err
	}
	if err := check(state); err != nil {
		return err
	}

	query, args, err := psql.Insert("public.payments").
		Columns(
			"booking_id", "rebooking_id", "amount", "is_down_payment", "is_rebooking_payment",
			"method", "reference_number", "receipt_file_id", "paid_at", "recorded_by",
		).
		Values(
			p.BookingID, p.RebookingID, p.Amount, p.IsDownPayment, p.IsRebookingPayment,
			p.Method, p.ReferenceNumber, p.ReceiptFileID, p.PaidAt, p.RecordedBy,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build record payment query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("record payment failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit record payment failed: %w", err)
	}
	return nil
}

// lockState locks the booking row first and the rebooking row second, the
// same order rebooking approval uses.
func lockState(ctx context.Context, tx pgx.Tx, bookingID string, rebookingID *string) (State, error) {
	query, args, err := psql.Select(booking.Columns...).
		From("public.bookings b").
		Where(squirrel.Eq{"b.id": bookingID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return State{}, fmt.Errorf("build lock booking query failed: %w", err)
	}

	b, err := booking.Scan(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return State{}, booking.ErrNotFound
		}
		return State{}, fmt.Errorf("lock booking failed: %w", err)
	}

	payments, err := booking.PaymentsFor(ctx, tx, []string{bookingID})
	if err != nil {
		return State{}, err
	}
	b.Payments = payments[bookingID]
	state := State{Booking: b}

	if rebookingID == nil {
		return state, nil
	}

	rb, err := rebooking.LockForPayment(ctx, tx, *rebookingID)
	if err != nil {
		return State{}, err
	}
	for _, p := range b.Payments {
		if p.RebookingID == rb.ID {
			rb.Payments = append(rb.Payments, p)
		}
	}
	state.Rebooking = rb
	return state, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Payment, error) {
	query, args, err := psql.Select(columns...).
		From("public.payments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get payment query failed: %w", err)
	}

	p, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get payment failed: %w", err)
	}
	return p, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Payment, int, error) {
	query := psql.Select(append(columns, "count(*) OVER() AS total_count")...).
		From("public.payments")

	if filter.BookingID != "" {
		query = query.Where(squirrel.Eq{"booking_id": filter.BookingID})
	}
	if filter.RebookingID != "" {
		query = query.Where(squirrel.Eq{"rebooking_id": filter.RebookingID})
	}
	if filter.Method != "" {
		query = query.Where(squirrel.Eq{"method": filter.Method})
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("paid_at "+orderDir, "id")

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
		return nil, 0, fmt.Errorf("build list payments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments failed: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	var total int
	for rows.Next() {
		p, err := scan(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payment failed: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, total, rows.Err()
}

func (r *pgxRepository) SetReceipt(ctx context.Context, id, fileID string) (*string, error) {
	const query = `
		UPDATE public.payments p
		SET receipt_file_id = $2
		FROM (SELECT id, receipt_file_id FROM public.payments WHERE id = $1 FOR UPDATE) old
		WHERE p.id = old.id
		RETURNING old.receipt_file_id`

	var previous *string
	if err := r.pool.QueryRow(ctx, query, id, fileID).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set payment receipt failed: %w", err)
	}
	return previous, nil
}

// Lock reads a payment and holds its row lock until q's transaction ends.
func Lock(ctx context.Context, q booking.DBTX, id string) (*Payment, error) {
	query, args, err := psql.Select(columns...).
		From("public.payments").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lock payment query failed: %w", err)
	}

	p, err := scan(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock payment failed: %w", err)
	}
	return p, nil
}
