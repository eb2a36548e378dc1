package excursion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/velmar/excursion-service/internal/domain"
	"github.com/velmar/excursion-service/pkg/dbmetrics"
	"github.com/velmar/excursion-service/pkg/psqlbuilder"
)

// excursionColumns колонки таблицы excursions в порядке сканирования
var excursionColumns = []string{
	"id",
	"guide_id",
	"title",
	"category",
	"base_price",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с экскурсиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория экскурсий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает экскурсию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Excursion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(excursionColumns...).
		From("excursions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var e domain.Excursion
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&e.ID,
		&e.GuideID,
		&e.Title,
		&e.Category,
		&e.BasePrice,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExcursionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan excursion: %v", ErrScanRow, err)
	}

	return &e, nil
}

// ListActive получает список активных экскурсий
// Опционально фильтрует по категории
func (r *Repository) ListActive(ctx context.Context, category *string) ([]*domain.Excursion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(excursionColumns...).
		From("excursions").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("title ASC")

	if category != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"category": *category})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	excursions := make([]*domain.Excursion, 0)
	for rows.Next() {
		var e domain.Excursion
		err := rows.Scan(
			&e.ID,
			&e.GuideID,
			&e.Title,
			&e.Category,
			&e.BasePrice,
			&e.IsActive,
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}
		excursions = append(excursions, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return excursions, nil
}
