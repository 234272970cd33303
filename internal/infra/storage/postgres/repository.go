package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/CareClarity-AppointmentService/internal/domain"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
	"github.com/m04kA/CareClarity-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/CareClarity-AppointmentService/pkg/txmanager"
)

const table = "appointments"

// columns порядок колонок совпадает с scanBooking
var columns = []string{
	"id",
	"doctor_id",
	"doctor_name",
	"user_id",
	"user_name",
	"user_email",
	"appointment_date",
	"time_slot",
	"status",
	"created_at",
	"cancelled_at",
}

// Ledger durable леджер на PostgreSQL
// Уникальность подтвержденного бронирования на слот обеспечивает частичный
// уникальный индекс appointments_confirmed_slot_uidx
type Ledger struct {
	db        DBExecutor
	txManager TransactionManager
	newID     IDGenerator
}

// NewLedger создает леджер. Все ошибки драйвера возвращаются обернутыми в ledger.ErrUnavailable
func NewLedger(db DBExecutor, txManager TransactionManager) *Ledger {
	return &Ledger{
		db:        db,
		txManager: txManager,
		newID:     uuid.NewString,
	}
}

// ListBookedSlots возвращает слоты с подтвержденными бронированиями врача на дату
func (l *Ledger) ListBookedSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	executor := txmanager.GetExecutor(ctx, l.db)

	query, args, err := psqlbuilder.Select("time_slot").
		From(table).
		Where(squirrel.Eq{
			"doctor_id":        doctorID,
			"appointment_date": date,
			"status":           domain.StatusConfirmed,
		}).
		ToSql()
	if err != nil {
		return nil, unavailable(ErrBuildQuery, "ListBookedSlots - build select query", err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(ErrExecQuery, "ListBookedSlots - execute query", err)
	}
	defer rows.Close()

	slots := make([]string, 0)
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, unavailable(ErrScanRow, "ListBookedSlots - scan slot", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(ErrScanRow, "ListBookedSlots - iterate rows", err)
	}

	slices.SortFunc(slots, domain.CompareSlots)
	return slots, nil
}

// Reserve создает подтвержденное бронирование одним условным INSERT
// Если на слот уже есть подтвержденное бронирование, строка не вставляется
// и возвращается ledger.ErrAlreadyBooked
func (l *Ledger) Reserve(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, l.db)

	booking := &domain.Booking{
		ID:         l.newID(),
		DoctorID:   draft.DoctorID,
		DoctorName: draft.DoctorName,
		UserID:     draft.UserID,
		UserName:   draft.UserName,
		UserEmail:  draft.UserEmail,
		Date:       draft.Date,
		TimeSlot:   draft.TimeSlot,
		Status:     domain.StatusConfirmed,
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"doctor_id",
			"doctor_name",
			"user_id",
			"user_name",
			"user_email",
			"appointment_date",
			"time_slot",
			"status",
		).
		Values(
			booking.ID,
			booking.DoctorID,
			booking.DoctorName,
			booking.UserID,
			booking.UserName,
			booking.UserEmail,
			booking.Date,
			booking.TimeSlot,
			booking.Status,
		).
		Suffix("ON CONFLICT (doctor_id, appointment_date, time_slot) WHERE status = 'confirmed' DO NOTHING RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, unavailable(ErrBuildQuery, "Reserve - build insert query", err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows), isUniqueViolation(err):
		return nil, ledger.ErrAlreadyBooked
	case err != nil:
		return nil, unavailable(ErrExecQuery, "Reserve - execute insert", err)
	}

	return booking, nil
}

// Cancel отменяет бронирование владельца
// Строка блокируется SELECT ... FOR UPDATE, повторная отмена ничего не меняет
func (l *Ledger) Cancel(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	if !isLedgerID(bookingID) {
		return nil, ledger.ErrBookingNotFound
	}

	var result *domain.Booking
	err := l.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := l.getByID(txCtx, bookingID, true)
		if err != nil {
			return err
		}
		if !booking.IsOwnedBy(userID) {
			return ledger.ErrNotOwner
		}
		if booking.IsCancelled() {
			result = booking
			return nil
		}

		executor := txmanager.GetExecutor(txCtx, l.db)
		query, args, err := psqlbuilder.Update(table).
			Set("status", domain.StatusCancelled).
			Set("cancelled_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": bookingID, "status": domain.StatusConfirmed}).
			Suffix("RETURNING cancelled_at").
			ToSql()
		if err != nil {
			return unavailable(ErrBuildQuery, "Cancel - build update query", err)
		}

		var cancelledAt time.Time
		if err := executor.QueryRowContext(txCtx, query, args...).Scan(&cancelledAt); err != nil {
			return unavailable(ErrExecQuery, "Cancel - execute update", err)
		}

		booking.Status = domain.StatusCancelled
		booking.CancelledAt = &cancelledAt
		result = booking
		return nil
	})
	if err != nil {
		if ledger.IsRejection(err) || ledger.IsUnavailable(err) {
			return nil, err
		}
		// ошибки begin/commit из txmanager
		return nil, fmt.Errorf("%w: Cancel - transaction: %w", ledger.ErrUnavailable, err)
	}

	return result, nil
}

// ListForUser возвращает бронирования пользователя, новые первыми
func (l *Ledger) ListForUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	return l.list(ctx, "ListForUser", squirrel.Eq{"user_id": userID})
}

// ListAll возвращает все бронирования, новые первыми
func (l *Ledger) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	return l.list(ctx, "ListAll", nil)
}

// GetByID получает бронирование по ID
func (l *Ledger) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if !isLedgerID(bookingID) {
		return nil, ledger.ErrBookingNotFound
	}
	return l.getByID(ctx, bookingID, false)
}

func (l *Ledger) getByID(ctx context.Context, bookingID string, forUpdate bool) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, l.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": bookingID})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, unavailable(ErrBuildQuery, "GetByID - build select query", err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrBookingNotFound
	}
	if err != nil {
		return nil, unavailable(ErrScanRow, "GetByID - scan booking", err)
	}

	return booking, nil
}

func (l *Ledger) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, l.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id DESC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, unavailable(ErrBuildQuery, op+" - build select query", err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(ErrExecQuery, op+" - execute query", err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, unavailable(ErrScanRow, op+" - scan booking", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(ErrScanRow, op+" - iterate rows", err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b           domain.Booking
		date        time.Time
		cancelledAt sql.NullTime
	)
	err := row.Scan(
		&b.ID,
		&b.DoctorID,
		&b.DoctorName,
		&b.UserID,
		&b.UserName,
		&b.UserEmail,
		&date,
		&b.TimeSlot,
		&b.Status,
		&b.CreatedAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	b.Date = date.Format(domain.DateFormat)
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	return &b, nil
}

// isLedgerID отсекает ID других леджеров (например mem-1) до обращения к базе,
// иначе PostgreSQL вернет ошибку приведения к uuid
func isLedgerID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
