package rebooking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
)

// ApproveCheck runs against the locked booking and rebooking before the
// move is applied.
type ApproveCheck func(b *booking.Booking, rb *Rebooking) error

type Repository interface {
	// Create inserts a pending rebooking with its line items. A second
	// pending rebooking for the same booking fails with ErrPendingExists.
	Create(ctx context.Context, rb *Rebooking) error
	GetByID(ctx context.Context, id string) (*Rebooking, error)
	List(ctx context.Context, filter Filter) ([]*Rebooking, int, error)
	// Update rewrites a pending rebooking. It fails with ErrNotPending when
	// the stored rebooking is no longer pending.
	Update(ctx context.Context, rb *Rebooking) error
	// Approve moves the booking to the rebooking's dates, party size and
	// accommodations and marks the rebooking approved, in one transaction.
	Approve(ctx context.Context, id, processedBy, remarks string, check ApproveCheck) (*Rebooking, error)
	// SetStatus moves a rebooking between statuses. It fails with
	// ErrStatusChanged when the stored status is no longer from.
	SetStatus(ctx context.Context, rb *Rebooking, from, to Status) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var columns = []string{
	"r.id", "r.booking_id", "r.requested_by", "r.new_check_in", "r.new_check_out",
	"r.new_total_adults", "r.new_total_children", "r.original_amount", "r.new_amount",
	"r.rebooking_fee", "r.status", "r.remarks", "r.processed_by", "r.processed_at",
	"r.created_at", "r.updated_at",
}

func scan(row pgx.Row, extra ...any) (*Rebooking, error) {
	var rb Rebooking
	dest := []any{
		&rb.ID, &rb.BookingID, &rb.RequestedBy, &rb.NewCheckIn, &rb.NewCheckOut,
		&rb.NewTotalAdults, &rb.NewTotalChildren, &rb.OriginalAmount, &rb.NewAmount,
		&rb.RebookingFee, &rb.Status, &rb.Remarks, &rb.ProcessedBy, &rb.ProcessedAt,
		&rb.CreatedAt, &rb.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &rb, nil
}

func (r *pgxRepository) Create(ctx context.Context, rb *Rebooking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create rebooking failed: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Insert("public.rebookings").
		Columns(
			"booking_id", "requested_by", "new_check_in", "new_check_out", "new_total_adults",
			"new_total_children", "original_amount", "new_amount", "rebooking_fee", "status", "remarks",
		).
		Values(
			rb.BookingID, rb.RequestedBy, rb.NewCheckIn, rb.NewCheckOut, rb.NewTotalAdults,
			rb.NewTotalChildren, rb.OriginalAmount, rb.NewAmount, rb.RebookingFee, rb.Status, rb.Remarks,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create rebooking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&rb.ID, &rb.CreatedAt, &rb.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrPendingExists
		}
		return fmt.Errorf("create rebooking failed: %w", err)
	}

	if err := insertLineItems(ctx, tx, rb.ID, rb.Accommodations); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create rebooking failed: %w", err)
	}
	return nil
}

func insertLineItems(ctx context.Context, q booking.DBTX, rebookingID string, items []LineItem) error {
	for i := range items {
		item := &items[i]
		query, args, err := psql.Insert("public.rebooking_accommodations").
			Columns("rebooking_id", "accommodation_id", "rate_id", "guests", "subtotal").
			Values(rebookingID, item.AccommodationID, item.RateID, item.Guests, item.Subtotal).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert rebooking line item query failed: %w", err)
		}
		if err := q.QueryRow(ctx, query, args...).Scan(&item.ID); err != nil {
			return fmt.Errorf("insert rebooking line item failed: %w", err)
		}
		item.RebookingID = rebookingID
	}
	return nil
}

func lineItemsFor(ctx context.Context, q booking.DBTX, rebookingIDs []string) ([]LineItem, error) {
	query, args, err := psql.Select(
		"ra.id", "ra.rebooking_id", "ra.accommodation_id", "a.name", "ra.rate_id", "rt.name",
		"ra.guests", "ra.subtotal",
	).
		From("public.rebooking_accommodations ra").
		Join("public.accommodations a ON a.id = ra.accommodation_id").
		Join("public.rates rt ON rt.id = ra.rate_id").
		Where(squirrel.Eq{"ra.rebooking_id": rebookingIDs}).
		OrderBy("a.name", "ra.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build rebooking line items query failed: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load rebooking line items failed: %w", err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(
			&item.ID, &item.RebookingID, &item.AccommodationID, &item.AccommodationName,
			&item.RateID, &item.RateName, &item.Guests, &item.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("scan rebooking line item failed: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// attach loads line items and the payments made against each rebooking.
func attach(ctx context.Context, q booking.DBTX, rebookings []*Rebooking) error {
	if len(rebookings) == 0 {
		return nil
	}
	byID := make(map[string]*Rebooking, len(rebookings))
	ids := make([]string, 0, len(rebookings))
	bookingIDs := make([]string, 0, len(rebookings))
	for _, rb := range rebookings {
		byID[rb.ID] = rb
		ids = append(ids, rb.ID)
		bookingIDs = append(bookingIDs, rb.BookingID)
	}

	items, err := lineItemsFor(ctx, q, ids)
	if err != nil {
		return err
	}
	for _, item := range items {
		rb := byID[item.RebookingID]
		rb.Accommodations = append(rb.Accommodations, item)
	}

	payments, err := booking.PaymentsFor(ctx, q, bookingIDs)
	if err != nil {
		return err
	}
	for _, ps := range payments {
		for _, p := range ps {
			if rb, ok := byID[p.RebookingID]; ok {
				rb.Payments = append(rb.Payments, p)
			}
		}
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Rebooking, error) {
	query, args, err := psql.Select(columns...).
		From("public.rebookings r").
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get rebooking query failed: %w", err)
	}

	rb, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rebooking failed: %w", err)
	}

	if err := attach(ctx, r.pool, []*Rebooking{rb}); err != nil {
		return nil, err
	}
	return rb, nil
}

// LockForPayment reads a rebooking with its line items and holds its row
// lock until q's transaction ends. Callers lock the booking row first.
func LockForPayment(ctx context.Context, q booking.DBTX, id string) (*Rebooking, error) {
	query, args, err := psql.Select(columns...).
		From("public.rebookings r").
		Where(squirrel.Eq{"r.id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lock rebooking query failed: %w", err)
	}

	rb, err := scan(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock rebooking failed: %w", err)
	}

	items, err := lineItemsFor(ctx, q, []string{id})
	if err != nil {
		return nil, err
	}
	rb.Accommodations = items
	return rb, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Rebooking, int, error) {
	query := psql.Select(append(columns, "count(*) OVER() AS total_count")...).
		From("public.rebookings r")

	if filter.BookingID != "" {
		query = query.Where(squirrel.Eq{"r.booking_id": filter.BookingID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"r.status": filter.Status})
	}
	if filter.UserID != "" {
		query = query.Join("public.bookings b ON b.id = r.booking_id").
			Where(squirrel.Eq{"b.user_id": filter.UserID})
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
		return nil, 0, fmt.Errorf("build list rebookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rebookings failed: %w", err)
	}
	defer rows.Close()

	var rebookings []*Rebooking
	var total int
	for rows.Next() {
		rb, err := scan(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan rebooking failed: %w", err)
		}
		rebookings = append(rebookings, rb)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list rebookings failed: %w", err)
	}

	if err := attach(ctx, r.pool, rebookings); err != nil {
		return nil, 0, err
	}
	return rebookings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, rb *Rebooking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update rebooking failed: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Update("public.rebookings").
		Set("new_check_in", rb.NewCheckIn).
		Set("new_check_out", rb.NewCheckOut).
		Set("new_total_adults", rb.NewTotalAdults).
		Set("new_total_children", rb.NewTotalChildren).
		Set("new_amount", rb.NewAmount).
		Set("rebooking_fee", rb.RebookingFee).
		Set("remarks", rb.Remarks).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rb.ID, "status": StatusPending}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update rebooking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&rb.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotPending
		}
		return fmt.Errorf("update rebooking failed: %w", err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM public.rebooking_accommodations WHERE rebooking_id = $1", rb.ID); err != nil {
		return fmt.Errorf("delete rebooking line items failed: %w", err)
	}
	if err := insertLineItems(ctx, tx, rb.ID, rb.Accommodations); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update rebooking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Approve(ctx context.Context, id, processedBy, remarks string, check ApproveCheck) (*Rebooking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin approve rebooking failed: %w", err)
	}
	defer tx.Rollback(ctx)

	var bookingID string
	if err := tx.QueryRow(ctx, "SELECT booking_id FROM public.rebookings WHERE id = $1", id).Scan(&bookingID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rebooking booking failed: %w", err)
	}

	// Booking row first, then the rebooking row, as payments do.
	bookingQuery, args, err := psql.Select(booking.Columns...).
		From("public.bookings b").
		Where(squirrel.Eq{"b.id": bookingID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lock booking query failed: %w", err)
	}
	b, err := booking.Scan(tx.QueryRow(ctx, bookingQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, fmt.Errorf("lock booking failed: %w", err)
	}

	rb, err := LockForPayment(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := check(b, rb); err != nil {
		return nil, err
	}

	items := rb.BookingLineItems()
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.AccommodationID
	}
	if err := booking.LockAccommodations(ctx, tx, ids); err != nil {
		return nil, err
	}
	conflicting, err := booking.Conflicts(ctx, tx, ids, rb.NewCheckIn, rb.NewCheckOut, b.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicting) > 0 {
		return nil, booking.Unavailable(items, conflicting)
	}

	moveQuery, args, err := psql.Update("public.bookings").
		Set("check_in", rb.NewCheckIn).
		Set("check_out", rb.NewCheckOut).
		Set("total_adults", rb.NewTotalAdults).
		Set("total_children", rb.NewTotalChildren).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build move booking query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, moveQuery, args...); err != nil {
		return nil, fmt.Errorf("move booking failed: %w", err)
	}
	if err := booking.ReplaceLineItems(ctx, tx, b.ID, items); err != nil {
		return nil, err
	}

	if err := setStatus(ctx, tx, rb, StatusPending, StatusApproved, processedBy, remarks); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit approve rebooking failed: %w", err)
	}
	return rb, nil
}

func (r *pgxRepository) SetStatus(ctx context.Context, rb *Rebooking, from, to Status) error {
	processedBy := ""
	if rb.ProcessedBy != nil {
		processedBy = *rb.ProcessedBy
	}
	return setStatus(ctx, r.pool, rb, from, to, processedBy, rb.Remarks)
}

// setStatus writes the new status and fills rb with the stored result.
func setStatus(ctx context.Context, q booking.DBTX, rb *Rebooking, from, to Status, processedBy, remarks string) error {
	update := psql.Update("public.rebookings").
		Set("status", to).
		Set("remarks", remarks).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rb.ID, "status": from}).
		Suffix("RETURNING processed_by, processed_at, updated_at")
	if processedBy != "" {
		update = update.
			Set("processed_by", processedBy).
			Set("processed_at", squirrel.Expr("now()"))
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update rebooking status query failed: %w", err)
	}

	var processedAt *time.Time
	if err := q.QueryRow(ctx, query, args...).Scan(&rb.ProcessedBy, &processedAt, &rb.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStatusChanged
		}
		return fmt.Errorf("update rebooking status failed: %w", err)
	}
	rb.Status = to
	rb.Remarks = remarks
	rb.ProcessedAt = processedAt
	return nil
}
