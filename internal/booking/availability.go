package booking

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// occupyingStatuses hold their accommodations.
var occupyingStatuses = []string{string(StatusPending), string(StatusConfirmed), string(StatusCheckedIn)}

// LockAccommodations takes a transaction-scoped advisory lock per
// accommodation, in id order so concurrent writers cannot deadlock.
func LockAccommodations(ctx context.Context, tx DBTX, ids []string) error {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	for _, id := range sorted {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", id); err != nil {
			return fmt.Errorf("lock accommodation %s failed: %w", id, err)
		}
	}
	return nil
}

// Conflicts returns the ids among accommodationIDs that an occupying booking
// holds on any night of [checkIn, checkOut). A same-day stay occupies its
// check-in date. excludeBookingID is skipped, e.g. when moving a booking.
func Conflicts(ctx context.Context, q DBTX, accommodationIDs []string, checkIn, checkOut time.Time, excludeBookingID string) ([]string, error) {
	if len(accommodationIDs) == 0 {
		return nil, nil
	}

	query := psql.Select("DISTINCT ba.accommodation_id").
		From("public.booking_accommodations ba").
		Join("public.bookings b ON b.id = ba.booking_id").
		Where(squirrel.Eq{"ba.accommodation_id": accommodationIDs}).
		Where(squirrel.Eq{"b.status": occupyingStatuses}).
		Where(squirrel.Expr("b.check_in < GREATEST(?::date, ?::date + 1)", checkOut, checkIn)).
		Where(squirrel.Expr("?::date < GREATEST(b.check_out, b.check_in + 1)", checkIn))

	if excludeBookingID != "" {
		query = query.Where(squirrel.NotEq{"b.id": excludeBookingID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build availability query failed: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("check availability failed: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan availability failed: %w", err)
	}
	return ids, nil
}

// InsertLineItems writes the accommodation lines of a booking and fills in
// their ids.
func InsertLineItems(ctx context.Context, q DBTX, bookingID string, items []LineItem) error {
	for i := range items {
		item := &items[i]
		query, args, err := psql.Insert("public.booking_accommodations").
			Columns("booking_id", "accommodation_id", "rate_id", "guests", "subtotal").
			Values(bookingID, item.AccommodationID, item.RateID, item.Guests, item.Subtotal).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert line item query failed: %w", err)
		}
		if err := q.QueryRow(ctx, query, args...).Scan(&item.ID); err != nil {
			return fmt.Errorf("insert line item failed: %w", err)
		}
		item.BookingID = bookingID
	}
	return nil
}

// ReplaceLineItems swaps the accommodation lines of a booking.
func ReplaceLineItems(ctx context.Context, q DBTX, bookingID string, items []LineItem) error {
	if _, err := q.Exec(ctx, "DELETE FROM public.booking_accommodations WHERE booking_id = $1", bookingID); err != nil {
		return fmt.Errorf("delete line items failed: %w", err)
	}
	return InsertLineItems(ctx, q, bookingID, items)
}

// Unavailable builds the conflict error naming the taken accommodations.
// It wraps ErrUnavailable.
func Unavailable(items []LineItem, conflicting []string) error {
	names := make([]string, 0, len(conflicting))
	for _, item := range items {
		if slices.Contains(conflicting, item.AccommodationID) {
			name := item.AccommodationName
			if name == "" {
				name = item.AccommodationID
			}
			names = append(names, name)
		}
	}
	return apperror.Wrap(ErrUnavailable, http.StatusConflict,
		fmt.Sprintf("%s already booked for these dates", strings.Join(names, ", ")))
}
