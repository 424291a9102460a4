package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go-booking-api/core/database"
	"go-booking-api/core/logger"
	"go-booking-api/modules/slot/entity"

	"github.com/google/uuid"
)

const slotColumns = `
		id,
		doctor_name,
		specialization,
		start_time,
		duration_minutes,
		total_capacity,
		remaining_capacity,
		created_at,
		updated_at`

// SlotRepository is the capacity store: besides plain CRUD it owns the two
// conditional updates that make capacity accounting race-free.
type SlotRepository struct {
	DB database.IDatabase
}

func NewSlotRepository(db database.IDatabase) *SlotRepository {
	return &SlotRepository{DB: db}
}

type SlotRepositoryInterface interface {
	Create(ctx context.Context, slot *entity.Slot) (*entity.Slot, error)
	GetByID(ctx context.Context, q database.Executor, id uuid.UUID) (*entity.Slot, error)
	List(ctx context.Context, filter ListFilter) ([]entity.Slot, error)
	Reserve(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*entity.Slot, error)
	Release(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*entity.Slot, error)
}

// ListFilter enumerates the optional slot listing conditions.
type ListFilter struct {
	DoctorName     string
	Specialization string
	From           *time.Time
	To             *time.Time
	OnlyAvailable  bool
}

func (r *SlotRepository) Create(ctx context.Context, slot *entity.Slot) (*entity.Slot, error) {
	query := `
		INSERT INTO slots
			(doctor_name, specialization, start_time, duration_minutes, total_capacity, remaining_capacity)
		VALUES
			($1, $2, $3, $4, $5, $6)
		RETURNING` + slotColumns

	var created entity.Slot
	err := r.DB.GetContext(ctx, &created, query,
		slot.DoctorName, slot.Specialization, slot.StartTime,
		slot.DurationMinutes, slot.TotalCapacity, slot.TotalCapacity)
	if err != nil {
		logger.Error("SlotRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

// executor falls back to the pool when no transaction is in play.
func (r *SlotRepository) executor(q database.Executor) database.Executor {
	if q != nil {
		return q
	}
	return r.DB.SQLx()
}

// GetByID reads a slot. It takes an Executor so the coordinator can read
// inside the same transaction that reserves capacity; pass nil outside one.
func (r *SlotRepository) GetByID(ctx context.Context, q database.Executor, id uuid.UUID) (*entity.Slot, error) {
	query := `SELECT` + slotColumns + `
		FROM slots
		WHERE id = $1`

	var slot entity.Slot
	err := r.executor(q).GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SlotRepository:GetByID", err)
		return nil, err
	}

	return &slot, nil
}

func (r *SlotRepository) List(ctx context.Context, filter ListFilter) ([]entity.Slot, error) {
	query, params := buildListQuery(filter)

	var slots []entity.Slot
	err := r.DB.SelectContext(ctx, &slots, query, params...)
	if err != nil {
		logger.Error("SlotRepository:List", err)
		return nil, err
	}

	return slots, nil
}

// buildListQuery collapses the listing variants into one parameterized query.
func buildListQuery(filter ListFilter) (string, []any) {
	var conditions []string
	var params []any

	if filter.DoctorName != "" {
		params = append(params, "%"+filter.DoctorName+"%")
		conditions = append(conditions, fmt.Sprintf("doctor_name ILIKE $%d", len(params)))
	}
	if filter.Specialization != "" {
		params = append(params, "%"+filter.Specialization+"%")
		conditions = append(conditions, fmt.Sprintf("specialization ILIKE $%d", len(params)))
	}
	if filter.From != nil {
		params = append(params, *filter.From)
		conditions = append(conditions, fmt.Sprintf("start_time >= $%d", len(params)))
	}
	if filter.To != nil {
		params = append(params, *filter.To)
		conditions = append(conditions, fmt.Sprintf("start_time <= $%d", len(params)))
	}
	if filter.OnlyAvailable {
		conditions = append(conditions, "remaining_capacity > 0")
	}

	query := `SELECT` + slotColumns + `
		FROM slots`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY start_time ASC"

	return query, params
}

// Reserve atomically decrements remaining capacity, guarded by the predicate
// in the statement itself. No row affected means insufficient capacity; that
// is an expected outcome, reported as (nil, nil), not an error.
func (r *SlotRepository) Reserve(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*entity.Slot, error) {
	query := `
		UPDATE slots
		SET remaining_capacity = remaining_capacity - $1,
		    updated_at = NOW()
		WHERE id = $2
		  AND remaining_capacity >= $1
		RETURNING` + slotColumns

	var updated entity.Slot
	err := q.GetContext(ctx, &updated, query, seats, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SlotRepository:Reserve", err)
		return nil, err
	}

	return &updated, nil
}

// Release is the symmetric conditional increment. The guard keeps remaining
// from ever exceeding total; no row affected signals corrupted accounting and
// the caller must treat it as an invariant violation.
func (r *SlotRepository) Release(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*entity.Slot, error) {
	query := `
		UPDATE slots
		SET remaining_capacity = remaining_capacity + $1,
		    updated_at = NOW()
		WHERE id = $2
		  AND remaining_capacity + $1 <= total_capacity
		RETURNING` + slotColumns

	var updated entity.Slot
	err := q.GetContext(ctx, &updated, query, seats, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SlotRepository:Release", err)
		return nil, err
	}

	return &updated, nil
}
