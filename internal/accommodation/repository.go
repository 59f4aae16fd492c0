package accommodation

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
	Create(ctx context.Context, a *Accommodation) error
	GetByID(ctx context.Context, id string) (*Accommodation, error)
	// GetMany returns the accommodations found, keyed by id.
	GetMany(ctx context.Context, ids []string) (map[string]*Accommodation, error)
	List(ctx context.Context, filter Filter) ([]*Accommodation, int, error)
	Update(ctx context.Context, a *Accommodation) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var columns = []string{
	"id", "name", "type", "description", "capacity", "is_active", "image_file_id", "created_at", "updated_at",
}

func scan(row pgx.Row, extra ...any) (*Accommodation, error) {
	var a Accommodation
	dest := []any{&a.ID, &a.Name, &a.Type, &a.Description, &a.Capacity, &a.IsActive, &a.ImageFileID, &a.CreatedAt, &a.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &a, nil
}

func translate(err error) error {
	var e *pgconn.PgError
	if errors.As(err, &e) {
		switch e.Code {
		case pgerrcode.UniqueViolation:
			return ErrNameTaken
		case pgerrcode.ForeignKeyViolation:
			return ErrInUse
		}
	}
	return err
}

func (r *pgxRepository) Create(ctx context.Context, a *Accommodation) error {
	query, args, err := psql.Insert("public.accommodations").
		Columns("name", "type", "description", "capacity", "is_active").
		Values(a.Name, a.Type, a.Description, a.Capacity, a.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create accommodation query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if t := translate(err); t != err {
			return t
		}
		return fmt.Errorf("create accommodation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Accommodation, error) {
	query, args, err := psql.Select(columns...).
		From("public.accommodations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get accommodation query failed: %w", err)
	}

	a, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get accommodation failed: %w", err)
	}
	return a, nil
}

func (r *pgxRepository) GetMany(ctx context.Context, ids []string) (map[string]*Accommodation, error) {
	out := make(map[string]*Accommodation, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := psql.Select(columns...).
		From("public.accommodations").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get accommodations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get accommodations failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan accommodation failed: %w", err)
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Accommodation, int, error) {
	query := psql.Select(append(columns, "count(*) OVER() AS total_count")...).
		From("public.accommodations")

	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": kw},
			squirrel.ILike{"description": kw},
		})
	}
	if filter.MinCapacity > 0 {
		query = query.Where(squirrel.GtOrEq{"capacity": filter.MinCapacity})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	orderBy := "name"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}
	orderDir := "ASC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

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
		return nil, 0, fmt.Errorf("build list accommodations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list accommodations failed: %w", err)
	}
	defer rows.Close()

	var result []*Accommodation
	var total int
	for rows.Next() {
		a, err := scan(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan accommodation failed: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate accommodations failed: %w", err)
	}
	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, a *Accommodation) error {
	query, args, err := psql.Update("public.accommodations").
		Set("name", a.Name).
		Set("type", a.Type).
		Set("description", a.Description).
		Set("capacity", a.Capacity).
		Set("is_active", a.IsActive).
		Set("image_file_id", a.ImageFileID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update accommodation query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if t := translate(err); t != err {
			return t
		}
		return fmt.Errorf("update accommodation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.accommodations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete accommodation query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if t := translate(err); t != err {
			return t
		}
		return fmt.Errorf("delete accommodation failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
