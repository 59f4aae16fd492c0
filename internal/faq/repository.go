package faq

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, f *FAQ) error
	GetByID(ctx context.Context, id string) (*FAQ, error)
	List(ctx context.Context, filter Filter) ([]*FAQ, int, error)
	Update(ctx context.Context, f *FAQ) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var columns = []string{"id", "question", "answer", "sort_order", "is_active", "created_at", "updated_at"}

func scan(row pgx.Row, extra ...any) (*FAQ, error) {
	var f FAQ
	dest := []any{&f.ID, &f.Question, &f.Answer, &f.SortOrder, &f.IsActive, &f.CreatedAt, &f.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *pgxRepository) Create(ctx context.Context, f *FAQ) error {
	query, args, err := psql.Insert("public.faqs").
		Columns("question", "answer", "sort_order", "is_active").
		Values(f.Question, f.Answer, f.SortOrder, f.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create faq query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return fmt.Errorf("create faq failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*FAQ, error) {
	query, args, err := psql.Select(columns...).
		From("public.faqs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get faq query failed: %w", err)
	}

	f, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get faq failed: %w", err)
	}
	return f, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*FAQ, int, error) {
	query := psql.Select(append(columns, "count(*) OVER() AS total_count")...).
		From("public.faqs")

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"question": like},
			squirrel.ILike{"answer": like},
		})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	query = query.OrderBy("sort_order", "created_at")

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
		return nil, 0, fmt.Errorf("build list faqs query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list faqs failed: %w", err)
	}
	defer rows.Close()

	var result []*FAQ
	var total int
	for rows.Next() {
		f, err := scan(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan faq failed: %w", err)
		}
		result = append(result, f)
	}
	return result, total, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, f *FAQ) error {
	query, args, err := psql.Update("public.faqs").
		Set("question", f.Question).
		Set("answer", f.Answer).
		Set("sort_order", f.SortOrder).
		Set("is_active", f.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": f.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update faq query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update faq failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.faqs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete faq query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete faq failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
