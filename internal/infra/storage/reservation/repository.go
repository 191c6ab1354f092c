package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/pkg/dbmetrics"
	"github.com/peluqueriacool/PC-ReservationService/pkg/psqlbuilder"
)

const reservationColumns = "id, customer_name, customer_phone, customer_email, " +
	"service_code, service_name, date, time, status, notes, created_at, updated_at"

// UpdateFields частичное обновление брони
// nil-поле означает "не менять". Контактные данные, дата, время и услуга
// неизменяемы после создания, поэтому обновлять можно только статус и заметки
type UpdateFields struct {
	Status *domain.ReservationStatus
	Notes  *string
}

// Repository репозиторий для работы с бронями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория броней
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую бронь
// created_at и updated_at выставляет база; они возвращаются через RETURNING
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"id",
			"customer_name",
			"customer_phone",
			"customer_email",
			"service_code",
			"service_name",
			"date",
			"time",
			"status",
			"notes",
		).
		Values(
			res.ID,
			res.CustomerName,
			res.CustomerPhone,
			res.CustomerEmail,
			res.ServiceCode,
			res.ServiceName,
			res.Date,
			res.Time,
			res.Status,
			res.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронь по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectReservations().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	res, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// List получает брони по фильтру, отсортированные по дате и времени (ASC)
// Поддерживает фильтрацию по статусу, конкретной дате и диапазону дат
func (r *Repository) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyFilter(selectReservations(), filter).
		OrderBy("date ASC, time ASC")

	// Внутри транзакции блокируем строки конкретного дня:
	// так проверка занятости слота при создании не гоняется с параллельной бронью
	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// Count считает брони по фильтру
// Используется для статистики дашборда: четыре независимых запроса,
// пересчитываемых при каждом обращении
func (r *Repository) Count(ctx context.Context, filter domain.ReservationsFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select("COUNT(*)").From("reservations"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %v", ErrExecQuery, err)
	}

	return count, nil
}

// Update применяет частичное обновление с оптимистичной блокировкой:
// запись проходит только если updated_at в базе равен expectedUpdatedAt.
// Если строка существует, но версия устарела, возвращает ErrVersionConflict
func (r *Repository) Update(ctx context.Context, id string, fields UpdateFields, expectedUpdatedAt time.Time) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("reservations").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"updated_at": expectedUpdatedAt})

	if fields.Status != nil {
		updateBuilder = updateBuilder.Set("status", *fields.Status)
	}
	if fields.Notes != nil {
		updateBuilder = updateBuilder.Set("notes", *fields.Notes)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + reservationColumns).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	res, err := scanReservation(row)
	if err == sql.ErrNoRows {
		// Ноль строк: либо брони нет, либо версия устарела - различаем
		return nil, r.classifyMiss(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// classifyMiss различает "бронь не найдена" и "конфликт версий"
func (r *Repository) classifyMiss(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: classifyMiss - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrReservationNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: classifyMiss - scan: %v", ErrExecQuery, err)
	}

	return ErrVersionConflict
}

// selectReservations возвращает SELECT builder со всеми колонками брони
func selectReservations() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"customer_name",
		"customer_phone",
		"customer_email",
		"service_code",
		"service_name",
		"date",
		"time",
		"status",
		"notes",
		"created_at",
		"updated_at",
	).From("reservations")
}

// applyFilter добавляет условия фильтра к builder'у
func applyFilter(b squirrel.SelectBuilder, filter domain.ReservationsFilter) squirrel.SelectBuilder {
	if filter.Status != nil {
		b = b.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Date != nil {
		b = b.Where(squirrel.Eq{"date": *filter.Date})
	}
	if filter.DateFrom != nil {
		b = b.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		b = b.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	return b
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.CustomerName,
		&res.CustomerPhone,
		&res.CustomerEmail,
		&res.ServiceCode,
		&res.ServiceName,
		&res.Date,
		&res.Time,
		&res.Status,
		&res.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
