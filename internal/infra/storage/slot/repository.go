package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/velmar/excursion-service/internal/domain"
	"github.com/velmar/excursion-service/pkg/dbmetrics"
	"github.com/velmar/excursion-service/pkg/psqlbuilder"
)

// slotColumns колонки таблицы availability_slots в порядке сканирования
var slotColumns = []string{
	"id",
	"excursion_id",
	"slot_date",
	"start_time",
	"max_participants",
	"price_override",
	"is_available",
	"available_spots",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает слот по ID
// Внутри транзакции блокирует строку слота (FOR UPDATE) - на этой блокировке
// сериализуются конкурентные бронирования одного слота
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("availability_slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.AvailabilitySlot
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.ExcursionID,
		&s.SlotDate,
		&s.StartTime,
		&s.MaxParticipants,
		&s.PriceOverride,
		&s.IsAvailable,
		&s.AvailableSpots,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return &s, nil
}

// ListByExcursion получает слоты экскурсии, отсортированные по дате и времени начала
// FromDate отсекает прошедшие слоты (обычно передается сегодняшний день)
func (r *Repository) ListByExcursion(ctx context.Context, filter domain.SlotsFilter) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("availability_slots").
		Where(squirrel.Eq{"excursion_id": filter.ExcursionID}).
		OrderBy("slot_date ASC, start_time ASC")

	if filter.FromDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"slot_date": *filter.FromDate})
	}
	if filter.OnlyAvailable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_available": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByExcursion - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByExcursion - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// UpdateAvailableSpots обновляет денормализованный кэш свободных мест слота
// Вызывается в одной транзакции с мутацией бронирований, чтобы кэш не расходился
func (r *Repository) UpdateAvailableSpots(ctx context.Context, id int64, availableSpots int, isAvailable bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_slots").
		Set("available_spots", availableSpots).
		Set("is_available", isAvailable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateAvailableSpots - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateAvailableSpots - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateAvailableSpots - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// CountGuideOpenSlots подсчитывает доступные слоты гида на указанную дату
// по всем его экскурсиям. Ноль означает, что гид в этот день не работает
func (r *Repository) CountGuideOpenSlots(ctx context.Context, guideID int64, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("availability_slots s").
		Join("excursions e ON e.id = s.excursion_id").
		Where(squirrel.Eq{"e.guide_id": guideID}).
		Where(squirrel.Eq{"s.is_available": true}).
		Where(squirrel.Expr("s.slot_date = ?", date.Format(domain.DateFormat))).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountGuideOpenSlots - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountGuideOpenSlots - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.AvailabilitySlot, error) {
	slots := make([]*domain.AvailabilitySlot, 0)

	for rows.Next() {
		var s domain.AvailabilitySlot
		err := rows.Scan(
			&s.ID,
			&s.ExcursionID,
			&s.SlotDate,
			&s.StartTime,
			&s.MaxParticipants,
			&s.PriceOverride,
			&s.IsAvailable,
			&s.AvailableSpots,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
