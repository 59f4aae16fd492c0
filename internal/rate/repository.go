package rate

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *Rate) error
	GetByID(ctx context.Context, id string) (*Rate, error)
	GetMany(ctx context.Context, ids []string) (map[string]*Rate, error)
	List(ctx context.Context, filter Filter) ([]*Rate, int, error)
	Update(ctx context.Context, r *Rate) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var columns = []string{"id", "accommodation_id", "name", "price", "unit", "is_active", "created_at", "updated_at"}

func scan(row pgx.Row, extra ...any) (*Rate, error) {
	var r Rate
	dest := []any{&r.ID, &r.AccommodationID, &r.Name, &r.Price, &r.Unit, &r.IsActive, &r.CreatedAt, &r.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &r, nil
}

func isPgError(err error, code string) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && e.Code == code
}

func (repo *pgxRepository) Create(ctx context.Context, r *Rate) error {
	query, args, err := psql.Insert("public.rates").
		Columns("accommodation_id", "name", "price", "unit", "is_active").
		Values(r.AccommodationID, r.Name, r.Price, r.Unit, r.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create rate query failed: %w", err)
	}

	if err := repo.pool.QueryRow(ctx, query, args...).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if isPgError(err, pgerrcode.ForeignKeyViolation) {
			return ErrAccommodationNotFound
		}
		return fmt.Errorf("create rate failed: %w", err)
	}
	return nil
}

func (repo *pgxRepository) GetByID(ctx context.Context, id string) (*Rate, error) {
	query, args, err := psql.Select(columns...).
		From("public.rates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get rate query failed: %w", err)
	}

	r, err := scan(repo.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rate failed: %w", err)
	}
	return r, nil
}

func (repo *pgxRepository) GetMany(ctx context.Context, ids []string) (map[string]*Rate, error) {
	out := make(map[string]*Rate, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := psql.Select(columns...).
		From("public.rates").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get rates query failed: %w", err)
	}

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get rates failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rate failed: %w", err)
		}
		out[r.ID] = r
	}
	return out, rows.Err()
}

func (repo *pgxRepository) List(ctx context.Context, filter Filter) ([]*Rate, int, error) {
	query := psql.Select(append(columns, "count(*) OVER() AS total_count")...).
		From("public.rates")

	if filter.AccommodationID != "" {
		query = query.Where(squirrel.Eq{"accommodation_id": filter.AccommodationID})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.OrderBy("price ASC", "name ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list rates query failed: %w", err)
	}

	rows, err := repo.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rates failed: %w", err)
	}
	defer rows.Close()

	var result []*Rate
	var total int
	for rows.Next() {
		r, err := scan(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan rate failed: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rates failed: %w", err)
	}
	return result, total, nil
}

func (repo *pgxRepository) Update(ctx context.Context, r *Rate) error {
	query, args, err := psql.Update("public.rates").
		Set("name", r.Name).
		Set("price", r.Price).
		Set("unit", r.Unit).
		Set("is_active", r.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": r.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update rate query failed: %w", err)
	}

	if err := repo.pool.QueryRow(ctx, query, args...).Scan(&r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update rate failed: %w", err)
	}
	return nil
}

func (repo *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := repo.pool.Exec(ctx, `DELETE FROM public.rates WHERE id = $1`, id)
	if err != nil {
		if isPgError(err, pgerrcode.ForeignKeyViolation) {
			return ErrInUse
		}
		return fmt.Errorf("delete rate failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
