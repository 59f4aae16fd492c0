package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	GetByID(ctx context.Context, id string) (*Feedback, error)
	List(ctx context.Context, filter Filter) ([]*Feedback, int, error)
	SetPublished(ctx context.Context, id string, published bool) (*Feedback, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var columns = []string{"id", "booking_id", "user_id", "name", "email", "rating", "comment", "is_published", "created_at"}

func scan(row pgx.Row, extra ...any) (*Feedback, error) {
	var f Feedback
	dest := []any{&f.ID, &f.BookingID, &f.UserID, &f.Name, &f.Email, &f.Rating, &f.Comment, &f.IsPublished, &f.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *pgxRepository) Create(ctx context.Context, f *Feedback) error {
	query, args, err := psql.Insert("public.feedbacks").
		Columns("booking_id", "user_id", "name", "email", "rating", "comment", "is_published").
		Values(f.BookingID, f.UserID, f.Name, f.Email, f.Rating, f.Comment, f.IsPublished).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create feedback query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&f.ID, &f.CreatedAt); err != nil {
		return fmt.Errorf("create feedback failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Feedback, error) {
	query, args, err := psql.Select(columns...).
		From("public.feedbacks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get feedback query failed: %w", err)
	}

	f, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get feedback failed: %w", err)
	}
	return f, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Feedback, int, error) {
	query := psql.Select(append(columns, "count(*) OVER() AS total_count")...).
		From("public.feedbacks")

	if filter.BookingID != "" {
		query = query.Where(squirrel.Eq{"booking_id": filter.BookingID})
	}
	if filter.IsPublished != nil {
		query = query.Where(squirrel.Eq{"is_published": *filter.IsPublished})
	}
	if filter.Rating > 0 {
		query = query.Where(squirrel.Eq{"rating": filter.Rating})
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("created_at "+orderDir, "id")

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
		return nil, 0, fmt.Errorf("build list feedback query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list feedback failed: %w", err)
	}
	defer rows.Close()

	var result []*Feedback
	var total int
	for rows.Next() {
		f, err := scan(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan feedback failed: %w", err)
		}
		result = append(result, f)
	}
	return result, total, rows.Err()
}

func (r *pgxRepository) SetPublished(ctx context.Context, id string, published bool) (*Feedback, error) {
	query, args, err := psql.Update("public.feedbacks").
		Set("is_published", published).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build publish feedback query failed: %w", err)
	}

	f, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("publish feedback failed: %w", err)
	}
	return f, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.feedbacks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete feedback query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete feedback failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
