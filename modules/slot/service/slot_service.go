package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go-booking-api/core/cache"
	"go-booking-api/core/constants"
	"go-booking-api/core/errors"
	"go-booking-api/core/logger"
	"go-booking-api/modules/slot/dto"
	"go-booking-api/modules/slot/entity"
	"go-booking-api/modules/slot/repository"

	"github.com/google/uuid"
)

type SlotServiceInterface interface {
	CreateSlot(ctx context.Context, req *dto.CreateSlotRequest) (*entity.Slot, *errors.AppError)
	GetSlotByID(ctx context.Context, id uuid.UUID) (*entity.Slot, *errors.AppError)
	ListSlots(ctx context.Context, query *dto.ListSlotsQuery) ([]entity.Slot, *errors.AppError)
	ListAvailableSlots(ctx context.Context, query *dto.AvailableSlotsQuery) ([]entity.Slot, *errors.AppError)
}

type slotService struct {
	repo repository.SlotRepositoryInterface
}

func NewSlotService(repo repository.SlotRepositoryInterface) SlotServiceInterface {
	return &slotService{repo: repo}
}

func (s *slotService) CreateSlot(ctx context.Context, req *dto.CreateSlotRequest) (*entity.Slot, *errors.AppError) {
	logger.Info("SlotService:CreateSlot:Start", "doctor_name", req.DoctorName, "total_capacity", req.TotalCapacity)

	doctorName := strings.TrimSpace(req.DoctorName)
	if doctorName == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "doctor_name is required and must be a non-empty string", nil)
	}
	if req.TotalCapacity <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "total_capacity is required and must be a positive integer", nil)
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_time must be a valid RFC3339 datetime string", nil)
	}

	var specialization *string
	if req.Specialization != nil {
		trimmed := strings.TrimSpace(*req.Specialization)
		if trimmed != "" {
			specialization = &trimmed
		}
	}

	slot := &entity.Slot{
		DoctorName:      doctorName,
		Specialization:  specialization,
		StartTime:       startTime.UTC(),
		DurationMinutes: req.DurationMinutes,
		TotalCapacity:   req.TotalCapacity,
	}

	created, err := s.repo.Create(ctx, slot)
	if err != nil {
		logger.Error("SlotService:CreateSlot:Create:Error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create slot", nil)
	}

	logger.Info("SlotService:CreateSlot:Success", "slot_id", created.ID)
	return created, nil
}

// GetSlotByID serves the public single-slot read through a short-TTL cache.
// The reservation engine never reads capacity through here; it reads inside
// its own transaction.
func (s *slotService) GetSlotByID(ctx context.Context, id uuid.UUID) (*entity.Slot, *errors.AppError) {
	cacheKey := constants.SlotCacheKeyPrefix + id.String()

	if raw, err := cache.Get(ctx, cacheKey); err == nil {
		var cached entity.Slot
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	}

	slot, err := s.repo.GetByID(ctx, nil, id)
	if err != nil {
		logger.Error("SlotService:GetSlotByID:Error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get slot", nil)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Slot not found", nil)
	}

	if raw, err := json.Marshal(slot); err == nil {
		if err := cache.Set(ctx, cacheKey, string(raw), constants.SlotCacheTTL); err != nil {
			logger.Warn("SlotService:GetSlotByID:CacheSet", "error", err)
		}
	}

	return slot, nil
}

func (s *slotService) ListSlots(ctx context.Context, query *dto.ListSlotsQuery) ([]entity.Slot, *errors.AppError) {
	filter := repository.ListFilter{
		DoctorName:     query.DoctorName,
		Specialization: query.Specialization,
	}

	if query.From != "" {
		from, err := time.Parse(time.RFC3339, query.From)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid 'from' filter. Must be a valid RFC3339 datetime.", nil)
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse(time.RFC3339, query.To)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid 'to' filter. Must be a valid RFC3339 datetime.", nil)
		}
		filter.To = &to
	}

	slots, err := s.repo.List(ctx, filter)
	if err != nil {
		logger.Error("SlotService:ListSlots:Error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list slots", nil)
	}

	return slots, nil
}

// ListAvailableSlots is the public listing: only slots with remaining
// capacity, limited to one day when a date filter is given, otherwise only
// future slots.
func (s *slotService) ListAvailableSlots(ctx context.Context, query *dto.AvailableSlotsQuery) ([]entity.Slot, *errors.AppError) {
	filter := repository.ListFilter{
		DoctorName:     query.DoctorName,
		Specialization: query.Specialization,
		OnlyAvailable:  true,
	}

	if query.Date != "" {
		day, err := time.Parse("2006-01-02", query.Date)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid 'date' filter. Must be a valid date (YYYY-MM-DD).", nil)
		}
		startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		endOfDay := startOfDay.Add(24*time.Hour - time.Millisecond)
		filter.From = &startOfDay
		filter.To = &endOfDay
	} else {
		now := time.Now().UTC()
		filter.From = &now
	}

	slots, err := s.repo.List(ctx, filter)
	if err != nil {
		logger.Error("SlotService:ListAvailableSlots:Error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list available slots", nil)
	}

	return slots, nil
}
