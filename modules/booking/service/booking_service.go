package service

import (
	"context"
	"strings"
	"time"

	"go-booking-api/core/cache"
	"go-booking-api/core/constants"
	"go-booking-api/core/database"
	"go-booking-api/core/errors"
	"go-booking-api/core/logger"
	"go-booking-api/modules/booking/dto"
	"go-booking-api/modules/booking/entity"
	"go-booking-api/modules/booking/repository"
	slotrepository "go-booking-api/modules/slot/repository"

	"github.com/google/uuid"
)

type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*entity.Booking, *errors.AppError)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, *errors.AppError)
	CancelBooking(ctx context.Context, id uuid.UUID) (*dto.CancelBookingResponse, *errors.AppError)
	SweepExpired(ctx context.Context) ([]entity.Booking, *errors.AppError)
	ListUserBookings(ctx context.Context, query *dto.ListBookingsQuery) ([]entity.Booking, *errors.AppError)
}

// bookingService coordinates the reservation protocol: every top-level
// operation runs as one transaction, so the ledger's terminal status always
// reflects whether capacity was actually granted.
type bookingService struct {
	bookingRepo repository.BookingRepositoryInterface
	slotRepo    slotrepository.SlotRepositoryInterface
}

func NewBookingService(
	bookingRepo repository.BookingRepositoryInterface,
	slotRepo slotrepository.SlotRepositoryInterface,
) BookingServiceInterface {
	return &bookingService{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
	}
}

// CreateBooking reserves seats against a slot. The whole protocol — insert a
// PENDING row, attempt the conditional capacity decrement, finalize the row to
// CONFIRMED or FAILED — commits or rolls back as a unit. A FAILED booking is a
// normal business outcome, not an error.
func (s *bookingService) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*entity.Booking, *errors.AppError) {
	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "slot_id is required (uuid string)", nil)
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "user_id is required (string)", nil)
	}
	if req.NumSeats <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "num_seats is required and must be a positive integer", nil)
	}

	logger.Info("BookingService:CreateBooking:Start", "slot_id", slotID, "user_id", userID, "num_seats", req.NumSeats)

	var result *entity.Booking
	var confirmed bool

	txErr := s.bookingRepo.ExecuteTransaction(ctx, func(tx database.Executor) error {
		slot, err := s.slotRepo.GetByID(ctx, tx, slotID)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to read slot", nil)
		}
		if slot == nil {
			// Abort before any ledger row exists.
			return errors.NewAppError(errors.ErrNotFound, "Slot not found", nil)
		}

		booking, err := s.bookingRepo.Create(ctx, tx, &entity.Booking{
			SlotID:    slotID,
			UserID:    userID,
			NumSeats:  req.NumSeats,
			Status:    entity.BookingStatusPending,
			ExpiresAt: time.Now().Add(constants.BookingHoldWindow),
		})
		if err != nil {
			return errors.NewAppError(errors.ErrCreateFailed, "Failed to create booking", nil)
		}

		updatedSlot, err := s.slotRepo.Reserve(ctx, tx, slotID, req.NumSeats)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to reserve capacity", nil)
		}

		status := entity.BookingStatusConfirmed
		if updatedSlot == nil {
			// Not enough capacity: the booking resolves to FAILED and the
			// transaction still commits so the attempt is recorded.
			status = entity.BookingStatusFailed
		}

		finalized, err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, status)
		if err != nil || finalized == nil {
			return errors.NewAppError(errors.ErrUpdateFailed, "Failed to finalize booking", nil)
		}

		result = finalized
		confirmed = status == entity.BookingStatusConfirmed
		return nil
	})
	if txErr != nil {
		if appErr, ok := txErr.(*errors.AppError); ok {
			return nil, appErr
		}
		logger.Error("BookingService:CreateBooking:Transaction", txErr)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Booking transaction failed", nil)
	}

	if confirmed {
		s.invalidateSlotCache(ctx, slotID)
	}

	logger.Info("BookingService:CreateBooking:Success",
		"booking_id", result.ID,
		"slot_id", slotID,
		"status", result.Status,
	)
	return result, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, *errors.AppError) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("BookingService:GetBookingByID:Error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get booking", nil)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Booking not found", nil)
	}
	return booking, nil
}

// CancelBooking releases a CONFIRMED booking's seats. The row lock taken up
// front is held for the whole transaction, so a concurrent cancel or sweep of
// the same booking serializes behind it; the loser observes a terminal status
// and gets an invalid-transition error rather than double-releasing.
//
// A nil, nil return means the booking does not exist — a no-op outcome the
// caller must check for, not an error.
func (s *bookingService) CancelBooking(ctx context.Context, id uuid.UUID) (*dto.CancelBookingResponse, *errors.AppError) {
	logger.Info("BookingService:CancelBooking:Start", "booking_id", id)

	var resp *dto.CancelBookingResponse
	var released bool
	var slotID uuid.UUID

	txErr := s.bookingRepo.ExecuteTransaction(ctx, func(tx database.Executor) error {
		booking, err := s.bookingRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to read booking", nil)
		}
		if booking == nil {
			return nil
		}

		// A cancel against an abandoned hold resolves it instead of erroring.
		// No capacity is released: a PENDING booking never holds any.
		if booking.Status == entity.BookingStatusPending && booking.ExpiresAt.Before(time.Now()) {
			failed, err := s.bookingRepo.UpdateStatus(ctx, tx, id, entity.BookingStatusFailed)
			if err != nil || failed == nil {
				return errors.NewAppError(errors.ErrUpdateFailed, "Failed to expire booking", nil)
			}
			resp = &dto.CancelBookingResponse{Booking: failed}
			return nil
		}

		if booking.Status != entity.BookingStatusConfirmed {
			return errors.NewAppError(errors.ErrInvalidStateTransition,
				"Only CONFIRMED bookings can be cancelled",
				map[string]any{"current_status": booking.Status})
		}

		updatedSlot, err := s.slotRepo.Release(ctx, tx, booking.SlotID, booking.NumSeats)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to release capacity", nil)
		}
		if updatedSlot == nil {
			// Releasing these seats would push remaining above total: the
			// ledger and capacity store are out of sync. Never swallow this.
			logger.Error("BookingService:CancelBooking:CapacityInvariantViolation",
				"booking_id", booking.ID,
				"slot_id", booking.SlotID,
				"num_seats", booking.NumSeats,
			)
			return errors.NewAppError(errors.ErrCapacityInvariant,
				"Cannot release seats: capacity accounting is inconsistent",
				map[string]any{"booking_id": booking.ID, "slot_id": booking.SlotID})
		}

		cancelled, err := s.bookingRepo.UpdateStatus(ctx, tx, id, entity.BookingStatusCancelled)
		if err != nil || cancelled == nil {
			return errors.NewAppError(errors.ErrUpdateFailed, "Failed to cancel booking", nil)
		}

		resp = &dto.CancelBookingResponse{Booking: cancelled, Slot: updatedSlot}
		released = true
		slotID = booking.SlotID
		return nil
	})
	if txErr != nil {
		if appErr, ok := txErr.(*errors.AppError); ok {
			return nil, appErr
		}
		logger.Error("BookingService:CancelBooking:Transaction", txErr)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Cancel transaction failed", nil)
	}

	if released {
		s.invalidateSlotCache(ctx, slotID)
	}

	if resp == nil {
		logger.Info("BookingService:CancelBooking:NotFound", "booking_id", id)
		return nil, nil
	}

	logger.Info("BookingService:CancelBooking:Success", "booking_id", id, "status", resp.Booking.Status)
	return resp, nil
}

// SweepExpired finalizes abandoned PENDING bookings past their expiry. Purely
// ledger bookkeeping: capacity is only ever decremented for CONFIRMED
// bookings at creation time, so there is nothing to release here.
func (s *bookingService) SweepExpired(ctx context.Context) ([]entity.Booking, *errors.AppError) {
	expired, err := s.bookingRepo.SweepExpired(ctx)
	if err != nil {
		logger.Error("BookingService:SweepExpired:Error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to sweep expired bookings", nil)
	}

	if len(expired) > 0 {
		logger.Info("BookingService:SweepExpired:Success", "expired_count", len(expired))
	}
	return expired, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, query *dto.ListBookingsQuery) ([]entity.Booking, *errors.AppError) {
	userID := strings.TrimSpace(query.UserID)
	if userID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "user_id is required", nil)
	}

	bookings, err := s.bookingRepo.ListByUser(ctx, userID, entity.BookingStatus(query.Status))
	if err != nil {
		logger.Error("BookingService:ListUserBookings:Error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list bookings", nil)
	}

	return bookings, nil
}

// invalidateSlotCache drops the cached public read after a committed capacity
// change. The engine itself never reads through the cache.
func (s *bookingService) invalidateSlotCache(ctx context.Context, slotID uuid.UUID) {
	if err := cache.Del(ctx, constants.SlotCacheKeyPrefix+slotID.String()); err != nil {
		logger.Warn("BookingService:InvalidateSlotCache", "slot_id", slotID, "error", err)
	}
}
