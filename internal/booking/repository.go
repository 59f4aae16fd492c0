package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
)

type Repository interface {
	// Create inserts the booking and its line items after checking, under
	// per-accommodation locks, that nothing else holds those dates.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// UpdateStatus moves the booking from one status to another. It fails
	// with ErrStatusChanged when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to Status) (time.Time, error)
	Delete(ctx context.Context, id string) error
	Conflicts(ctx context.Context, accommodationIDs []string, checkIn, checkOut time.Time, excludeBookingID string) ([]string, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Columns lists the bookings columns in the order Scan expects them.
var Columns = []string{
	"b.id", "b.user_id", "b.guest_name", "b.guest_email", "b.guest_phone", "b.source",
	"b.check_in", "b.check_out", "b.total_adults", "b.total_children", "b.status",
	"b.total_amount", "b.down_payment_required", "b.down_payment_amount", "b.remarks",
	"b.created_by", "b.created_at", "b.updated_at",
}

// Scan reads a row selected with Columns. extra receives any trailing columns.
func Scan(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.UserID, &b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.Source,
		&b.CheckIn, &b.CheckOut, &b.TotalAdults, &b.TotalChildren, &b.Status,
		&b.TotalAmount, &b.DownPaymentRequired, &b.DownPaymentAmount, &b.Remarks,
		&b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking failed: %w", err)
	}
	defer tx.Rollback(ctx)

	ids := make([]string, len(b.Accommodations))
	for i, item := range b.Accommodations {
		ids[i] = item.AccommodationID
	}
	if err := LockAccommodations(ctx, tx, ids); err != nil {
		return err
	}

	conflicting, err := Conflicts(ctx, tx, ids, b.CheckIn, b.CheckOut, "")
	if err != nil {
		return err
	}
	if len(conflicting) > 0 {
		return Unavailable(b.Accommodations, conflicting)
	}

	query, args, err := psql.Insert("public.bookings").
		Columns(
			"user_id", "guest_name", "guest_email", "guest_phone", "source",
			"check_in", "check_out", "total_adults", "total_children", "status",
			"total_amount", "down_payment_required", "down_payment_amount", "remarks", "created_by",
		).
		Values(
			b.UserID, b.GuestName, b.GuestEmail, b.GuestPhone, b.Source,
			b.CheckIn, b.CheckOut, b.TotalAdults, b.TotalChildren, b.Status,
			b.TotalAmount, b.DownPaymentRequired, b.DownPaymentAmount, b.Remarks, b.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}

	if err := InsertLineItems(ctx, tx, b.ID, b.Accommodations); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := psql.Select(Columns...).
		From("public.bookings b").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := Scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}

	if err := r.attach(ctx, []*Booking{b}); err != nil {
		return nil, err
	}
	return b, nil
}

var sortColumns = map[string]string{
	"check_in":     "b.check_in",
	"created_at":   "b.created_at",
	"total_amount": "b.total_amount",
	"guest_name":   "b.guest_name",
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := psql.Select(append(Columns, "count(*) OVER() AS total_count")...).
		From("public.bookings b")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.Source != "" {
		query = query.Where(squirrel.Eq{"b.source": filter.Source})
	}
	if filter.CheckInFrom != nil {
		query = query.Where(squirrel.GtOrEq{"b.check_in": *filter.CheckInFrom})
	}
	if filter.CheckInTo != nil {
		query = query.Where(squirrel.LtOrEq{"b.check_in": *filter.CheckInTo})
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"b.guest_name": like},
			squirrel.ILike{"b.guest_email": like},
			squirrel.ILike{"b.guest_phone": like},
		})
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "b.check_in"
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy+" "+orderDir, "b.id")

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
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := Scan(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}

	if err := r.attach(ctx, bookings); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// attach loads line items and payments for the given bookings.
func (r *pgxRepository) attach(ctx context.Context, bookings []*Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	byID := make(map[string]*Booking, len(bookings))
	ids := make([]string, len(bookings))
	for i, b := range bookings {
		byID[b.ID] = b
		ids[i] = b.ID
	}

	items, err := LineItemsFor(ctx, r.pool, ids)
	if err != nil {
		return err
	}
	for _, item := range items {
		b := byID[item.BookingID]
		b.Accommodations = append(b.Accommodations, item)
	}

	payments, err := PaymentsFor(ctx, r.pool, ids)
	if err != nil {
		return err
	}
	for bookingID, ps := range payments {
		byID[bookingID].Payments = ps
	}
	return nil
}

// LineItemsFor loads the accommodation lines of the given bookings.
func LineItemsFor(ctx context.Context, q DBTX, bookingIDs []string) ([]LineItem, error) {
	query, args, err := psql.Select(
		"ba.id", "ba.booking_id", "ba.accommodation_id", "a.name", "ba.rate_id", "rt.name",
		"ba.guests", "ba.subtotal",
	).
		From("public.booking_accommodations ba").
		Join("public.accommodations a ON a.id = ba.accommodation_id").
		Join("public.rates rt ON rt.id = ba.rate_id").
		Where(squirrel.Eq{"ba.booking_id": bookingIDs}).
		OrderBy("a.name", "ba.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build line items query failed: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load line items failed: %w", err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(
			&item.ID, &item.BookingID, &item.AccommodationID, &item.AccommodationName,
			&item.RateID, &item.RateName, &item.Guests, &item.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("scan line item failed: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// PaymentsFor loads the payments of the given bookings as ledger records,
// keyed by booking id.
func PaymentsFor(ctx context.Context, q DBTX, bookingIDs []string) (map[string][]ledger.PaymentRecord, error) {
	query, args, err := psql.Select(
		"p.booking_id", "p.id", "p.amount", "p.is_down_payment", "p.is_rebooking_payment",
		"COALESCE(p.rebooking_id::text, '')",
	).
		From("public.payments p").
		Where(squirrel.Eq{"p.booking_id": bookingIDs}).
		OrderBy("p.paid_at", "p.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build payments query failed: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load payments failed: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]ledger.PaymentRecord)
	for rows.Next() {
		var bookingID string
		var p ledger.PaymentRecord
		if err := rows.Scan(&bookingID, &p.ID, &p.Amount, &p.IsDownPayment, &p.IsRebookingPayment, &p.RebookingID); err != nil {
			return nil, fmt.Errorf("scan payment failed: %w", err)
		}
		out[bookingID] = append(out[bookingID], p)
	}
	return out, rows.Err()
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) (time.Time, error) {
	query, args, err := psql.Update("public.bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("build update booking status query failed: %w", err)
	}

	var updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrStatusChanged
		}
		return time.Time{}, fmt.Errorf("update booking status failed: %w", err)
	}
	return updatedAt, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Conflicts(ctx context.Context, accommodationIDs []string, checkIn, checkOut time.Time, excludeBookingID string) ([]string, error) {
	return Conflicts(ctx, r.pool, accommodationIDs, checkIn, checkOut, excludeBookingID)
}
