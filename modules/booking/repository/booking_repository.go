package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go-booking-api/core/database"
	"go-booking-api/core/logger"
	"go-booking-api/modules/booking/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const bookingColumns = `
		id,
		slot_id,
		user_id,
		num_seats,
		status,
		expires_at,
		created_at,
		updated_at`

// BookingRepository is the reservation ledger: a dumb persistence layer for
// booking rows, used by the coordinator inside larger transactions. It does
// not validate state-machine legality; that lives in the service.
type BookingRepository struct {
	DB database.IDatabase
}

func NewBookingRepository(db database.IDatabase) *BookingRepository {
	return &BookingRepository{DB: db}
}

type BookingRepositoryInterface interface {
	ExecuteTransaction(ctx context.Context, fn func(tx database.Executor) error) error
	Create(ctx context.Context, q database.Executor, booking *entity.Booking) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, q database.Executor, id uuid.UUID, status entity.BookingStatus) (*entity.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	GetByIDForUpdate(ctx context.Context, q database.Executor, id uuid.UUID) (*entity.Booking, error)
	SweepExpired(ctx context.Context) ([]entity.Booking, error)
	ListByUser(ctx context.Context, userID string, status entity.BookingStatus) ([]entity.Booking, error)
}

// ExecuteTransaction runs fn as one atomic unit of work.
func (r *BookingRepository) ExecuteTransaction(ctx context.Context, fn func(tx database.Executor) error) error {
	return r.DB.Transaction(ctx, func(tx *sqlx.Tx) error {
		return fn(tx)
	})
}

func (r *BookingRepository) Create(ctx context.Context, q database.Executor, booking *entity.Booking) (*entity.Booking, error) {
	query := `
		INSERT INTO bookings
			(slot_id, user_id, num_seats, status, expires_at)
		VALUES
			($1, $2, $3, $4, $5)
		RETURNING` + bookingColumns

	var created entity.Booking
	err := q.GetContext(ctx, &created, query,
		booking.SlotID, booking.UserID, booking.NumSeats, booking.Status, booking.ExpiresAt)
	if err != nil {
		logger.Error("BookingRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

// UpdateStatus is an unconditional status write; callers are responsible for
// respecting the state machine.
func (r *BookingRepository) UpdateStatus(ctx context.Context, q database.Executor, id uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1,
		    updated_at = NOW()
		WHERE id = $2
		RETURNING` + bookingColumns

	var updated entity.Booking
	err := q.GetContext(ctx, &updated, query, status, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:UpdateStatus", err)
		return nil, err
	}

	return &updated, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE id = $1`

	var booking entity.Booking
	err := r.DB.GetContext(ctx, &booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetByID", err)
		return nil, err
	}

	return &booking, nil
}

// GetByIDForUpdate reads a booking holding an exclusive row lock until the
// enclosing transaction commits. A concurrent cancel or sweep of the same row
// blocks here instead of racing.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, q database.Executor, id uuid.UUID) (*entity.Booking, error) {
	if q == nil {
		return nil, fmt.Errorf("GetByIDForUpdate requires a transaction executor")
	}

	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE id = $1
		FOR UPDATE`

	var booking entity.Booking
	err := q.GetContext(ctx, &booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetByIDForUpdate", err)
		return nil, err
	}

	return &booking, nil
}

// SweepExpired fails every PENDING booking past its expiry in one statement.
// Swept rows are terminal, so repeated sweeps select nothing — the operation
// is idempotent. Capacity is never adjusted here: a PENDING booking holds no
// reserved capacity.
func (r *BookingRepository) SweepExpired(ctx context.Context) ([]entity.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1,
		    updated_at = NOW()
		WHERE status = $2
		  AND expires_at < NOW()
		RETURNING` + bookingColumns

	var expired []entity.Booking
	err := r.DB.SelectContext(ctx, &expired, query, entity.BookingStatusFailed, entity.BookingStatusPending)
	if err != nil {
		logger.Error("BookingRepository:SweepExpired", err)
		return nil, err
	}

	return expired, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string, status entity.BookingStatus) ([]entity.Booking, error) {
	params := []any{userID}
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1`

	if status != "" {
		params = append(params, status)
		query += fmt.Sprintf("\n\t\t  AND status = $%d", len(params))
	}
	query += "\n\t\tORDER BY created_at DESC"

	var bookings []entity.Booking
	err := r.DB.SelectContext(ctx, &bookings, query, params...)
	if err != nil {
		logger.Error("BookingRepository:ListByUser", err)
		return nil, err
	}

	return bookings, nil
}
