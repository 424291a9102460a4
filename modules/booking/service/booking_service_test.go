package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-booking-api/core/database"
	"go-booking-api/core/errors"
	"go-booking-api/modules/booking/dto"
	"go-booking-api/modules/booking/entity"
	slotentity "go-booking-api/modules/slot/entity"
	slotrepository "go-booking-api/modules/slot/repository"

	"github.com/google/uuid"
)

type mockBookingRepo struct {
	executeTransactionFn func(ctx context.Context, fn func(tx database.Executor) error) error
	createFn             func(ctx context.Context, q database.Executor, booking *entity.Booking) (*entity.Booking, error)
	updateStatusFn       func(ctx context.Context, q database.Executor, id uuid.UUID, status entity.BookingStatus) (*entity.Booking, error)
	getByIDFn            func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	getByIDForUpdateFn   func(ctx context.Context, q database.Executor, id uuid.UUID) (*entity.Booking, error)
	sweepExpiredFn       func(ctx context.Context) ([]entity.Booking, error)
	listByUserFn         func(ctx context.Context, userID string, status entity.BookingStatus) ([]entity.Booking, error)
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn func(tx database.Executor) error) error {
	if m.executeTransactionFn != nil {
		return m.executeTransactionFn(ctx, fn)
	}
	return fn(nil)
}

func (m *mockBookingRepo) Create(ctx context.Context, q database.Executor, booking *entity.Booking) (*entity.Booking, error) {
	return m.createFn(ctx, q, booking)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, q database.Executor, id uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
	return m.updateStatusFn(ctx, q, id, status)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockBookingRepo) GetByIDForUpdate(ctx context.Context, q database.Executor, id uuid.UUID) (*entity.Booking, error) {
	return m.getByIDForUpdateFn(ctx, q, id)
}

func (m *mockBookingRepo) SweepExpired(ctx context.Context) ([]entity.Booking, error) {
	return m.sweepExpiredFn(ctx)
}

func (m *mockBookingRepo) ListByUser(ctx context.Context, userID string, status entity.BookingStatus) ([]entity.Booking, error) {
	return m.listByUserFn(ctx, userID, status)
}

type mockSlotRepo struct {
	createFn  func(ctx context.Context, slot *slotentity.Slot) (*slotentity.Slot, error)
	getByIDFn func(ctx context.Context, q database.Executor, id uuid.UUID) (*slotentity.Slot, error)
	listFn    func(ctx context.Context, filter slotrepository.ListFilter) ([]slotentity.Slot, error)
	reserveFn func(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*slotentity.Slot, error)
	releaseFn func(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*slotentity.Slot, error)
}

func (m *mockSlotRepo) Create(ctx context.Context, slot *slotentity.Slot) (*slotentity.Slot, error) {
	return m.createFn(ctx, slot)
}

func (m *mockSlotRepo) GetByID(ctx context.Context, q database.Executor, id uuid.UUID) (*slotentity.Slot, error) {
	return m.getByIDFn(ctx, q, id)
}

func (m *mockSlotRepo) List(ctx context.Context, filter slotrepository.ListFilter) ([]slotentity.Slot, error) {
	return m.listFn(ctx, filter)
}

func (m *mockSlotRepo) Reserve(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*slotentity.Slot, error) {
	return m.reserveFn(ctx, q, id, seats)
}

func (m *mockSlotRepo) Release(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*slotentity.Slot, error) {
	return m.releaseFn(ctx, q, id, seats)
}

func testSlot(remaining, total int) *slotentity.Slot {
	return &slotentity.Slot{
		ID:                uuid.New(),
		DoctorName:        "Dr. Nguyen",
		StartTime:         time.Now().Add(24 * time.Hour),
		TotalCapacity:     total,
		RemainingCapacity: remaining,
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	svc := NewBookingService(&mockBookingRepo{}, &mockSlotRepo{})

	tests := []struct {
		name string
		req  *dto.CreateBookingRequest
	}{
		{"malformed slot id", &dto.CreateBookingRequest{SlotID: "not-a-uuid", UserID: "u1", NumSeats: 1}},
		{"empty slot id", &dto.CreateBookingRequest{SlotID: "", UserID: "u1", NumSeats: 1}},
		{"blank user id", &dto.CreateBookingRequest{SlotID: uuid.NewString(), UserID: "   ", NumSeats: 1}},
		{"zero seats", &dto.CreateBookingRequest{SlotID: uuid.NewString(), UserID: "u1", NumSeats: 0}},
		{"negative seats", &dto.CreateBookingRequest{SlotID: uuid.NewString(), UserID: "u1", NumSeats: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking, appErr := svc.CreateBooking(context.Background(), tt.req)
			if booking != nil {
				t.Fatalf("expected no booking, got %+v", booking)
			}
			if appErr == nil || appErr.Code != errors.ErrInvalidInput {
				t.Fatalf("expected %s error, got %+v", errors.ErrInvalidInput, appErr)
			}
		})
	}
}

func TestCreateBooking_SlotNotFound(t *testing.T) {
	created := false
	bookingRepo := &mockBookingRepo{
		createFn: func(ctx context.Context, q database.Executor, booking *entity.Booking) (*entity.Booking, error) {
			created = true
			return booking, nil
		},
	}
	slotRepo := &mockSlotRepo{
		getByIDFn: func(ctx context.Context, q database.Executor, id uuid.UUID) (*slotentity.Slot, error) {
			return nil, nil
		},
	}
	svc := NewBookingService(bookingRepo, slotRepo)

	booking, appErr := svc.CreateBooking(context.Background(), &dto.CreateBookingRequest{
		SlotID:   uuid.NewString(),
		UserID:   "u1",
		NumSeats: 2,
	})
	if booking != nil {
		t.Fatalf("expected no booking, got %+v", booking)
	}
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("expected %s error, got %+v", errors.ErrNotFound, appErr)
	}
	if created {
		t.Fatal("no ledger row should be written when the slot does not exist")
	}
}

func TestCreateBooking_Confirmed(t *testing.T) {
	slot := testSlot(5, 10)
	var finalStatus entity.BookingStatus

	bookingRepo := &mockBookingRepo{
		createFn: func(ctx context.Context, q database.Executor, booking *entity.Booking) (*entity.Booking, error) {
			if booking.Status != entity.BookingStatusPending {
				t.Fatalf("booking must be inserted as PENDING, got %s", booking.Status)
			}
			if booking.ExpiresAt.Before(time.Now()) {
				t.Fatal("hold expiry must lie in the future")
			}
			b := *booking
			b.ID = uuid.New()
			return &b, nil
		},
		updateStatusFn: func(ctx context.Context, q database.Executor, id uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
			finalStatus = status
			return &entity.Booking{ID: id, SlotID: slot.ID, UserID: "u1", NumSeats: 3, Status: status}, nil
		},
	}
	slotRepo := &mockSlotRepo{
		getByIDFn: func(ctx context.Context, q database.Executor, id uuid.UUID) (*slotentity.Slot, error) {
			return slot, nil
		},
		reserveFn: func(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*slotentity.Slot, error) {
			updated := *slot
			updated.RemainingCapacity -= seats
			return &updated, nil
		},
	}
	svc := NewBookingService(bookingRepo, slotRepo)

	booking, appErr := svc.CreateBooking(context.Background(), &dto.CreateBookingRequest{
		SlotID:   slot.ID.String(),
		UserID:   "u1",
		NumSeats: 3,
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %+v", appErr)
	}
	if booking.Status != entity.BookingStatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", booking.Status)
	}
	if finalStatus != entity.BookingStatusConfirmed {
		t.Fatalf("ledger finalized as %s, want CONFIRMED", finalStatus)
	}
}

func TestCreateBooking_CapacityUnavailable(t *testing.T) {
	slot := testSlot(2, 10)

	bookingRepo := &mockBookingRepo{
		createFn: func(ctx context.Context, q database.Executor, booking *entity.Booking) (*entity.Booking, error) {
			b := *booking
			b.ID = uuid.New()
			return &b, nil
		},
		updateStatusFn: func(ctx context.Context, q database.Executor, id uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
			return &entity.Booking{ID: id, SlotID: slot.ID, UserID: "u1", NumSeats: 5, Status: status}, nil
		},
	}
	slotRepo := &mockSlotRepo{
		getByIDFn: func(ctx context.Context, q database.Executor, id uuid.UUID) (*slotentity.Slot, error) {
			return slot, nil
		},
		reserveFn: func(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*slotentity.Slot, error) {
			// Conditional decrement matched no row.
			return nil, nil
		},
	}
	svc := NewBookingService(bookingRepo, slotRepo)

	booking, appErr := svc.CreateBooking(context.Background(), &dto.CreateBookingRequest{
		SlotID:   slot.ID.String(),
		UserID:   "u1",
		NumSeats: 5,
	})
	if appErr != nil {
		t.Fatalf("a FAILED booking is a success response, got error %+v", appErr)
	}
	if booking.Status != entity.BookingStatusFailed {
		t.Fatalf("expected FAILED, got %s", booking.Status)
	}
}

// Under contention for a slot with capacity C, exactly C of the competing
// single-seat requests may confirm; the rest must fail without ever driving
// remaining capacity negative.
func TestCreateBooking_ConcurrentContention(t *testing.T) {
	const total = 5
	const requests = 40

	slot := testSlot(total, total)

	var mu sync.Mutex
	remaining := total

	bookingRepo := &mockBookingRepo{
		createFn: func(ctx context.Context, q database.Executor, booking *entity.Booking) (*entity.Booking, error) {
			b := *booking
			b.ID = uuid.New()
			return &b, nil
		},
		updateStatusFn: func(ctx context.Context, q database.Executor, id uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
			return &entity.Booking{ID: id, SlotID: slot.ID, NumSeats: 1, Status: status}, nil
		},
	}
	slotRepo := &mockSlotRepo{
		getByIDFn: func(ctx context.Context, q database.Executor, id uuid.UUID) (*slotentity.Slot, error) {
			return slot, nil
		},
		reserveFn: func(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*slotentity.Slot, error) {
			mu.Lock()
			defer mu.Unlock()
			if remaining < seats {
				return nil, nil
			}
			remaining -= seats
			updated := *slot
			updated.RemainingCapacity = remaining
			return &updated, nil
		},
	}
	svc := NewBookingService(bookingRepo, slotRepo)

	var wg sync.WaitGroup
	results := make(chan entity.BookingStatus, requests)

	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			booking, appErr := svc.CreateBooking(context.Background(), &dto.CreateBookingRequest{
				SlotID:   slot.ID.String(),
				UserID:   "u1",
				NumSeats: 1,
			})
			if appErr != nil {
				t.Errorf("unexpected error: %+v", appErr)
				return
			}
			results <- booking.Status
		}()
	}
	wg.Wait()
	close(results)

	confirmed, failed := 0, 0
	for status := range results {
		switch status {
		case entity.BookingStatusConfirmed:
			confirmed++
		case entity.BookingStatusFailed:
			failed++
		default:
			t.Fatalf("unexpected terminal status %s", status)
		}
	}

	if confirmed != total {
		t.Fatalf("confirmed = %d, want exactly %d", confirmed, total)
	}
	if failed != requests-total {
		t.Fatalf("failed = %d, want %d", failed, requests-total)
	}
	if remaining != 0 {
		t.Fatalf("remaining = %d, want 0", remaining)
	}
}

func TestCancelBooking_NotFoundIsNoOp(t *testing.T) {
	bookingRepo := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, q database.Executor, id uuid.UUID) (*entity.Booking, error) {
			return nil, nil
		},
	}
	svc := NewBookingService(bookingRepo, &mockSlotRepo{})

	resp, appErr := svc.CancelBooking(context.Background(), uuid.New())
	if appErr != nil {
		t.Fatalf("unexpected error: %+v", appErr)
	}
	if resp != nil {
		t.Fatalf("cancelling an absent booking must be a no-op, got %+v", resp)
	}
}

func TestCancelBooking_ExpiredPendingResolvesToFailed(t *testing.T) {
	id := uuid.New()
	released := false

	bookingRepo := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, q database.Executor, bid uuid.UUID) (*entity.Booking, error) {
			return &entity.Booking{
				ID:        id,
				SlotID:    uuid.New(),
				NumSeats:  2,
				Status:    entity.BookingStatusPending,
				ExpiresAt: time.Now().Add(-time.Minute),
			}, nil
		},
		updateStatusFn: func(ctx context.Context, q database.Executor, bid uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
			if status != entity.BookingStatusFailed {
				t.Fatalf("expired hold must resolve to FAILED, got %s", status)
			}
			return &entity.Booking{ID: bid, Status: status}, nil
		},
	}
	slotRepo := &mockSlotRepo{
		releaseFn: func(ctx context.Context, q database.Executor, sid uuid.UUID, seats int) (*slotentity.Slot, error) {
			released = true
			return nil, nil
		},
	}
	svc := NewBookingService(bookingRepo, slotRepo)

	resp, appErr := svc.CancelBooking(context.Background(), id)
	if appErr != nil {
		t.Fatalf("unexpected error: %+v", appErr)
	}
	if resp == nil || resp.Booking.Status != entity.BookingStatusFailed {
		t.Fatalf("expected FAILED booking in response, got %+v", resp)
	}
	if resp.Slot != nil {
		t.Fatal("expiring a hold must not touch capacity")
	}
	if released {
		t.Fatal("a PENDING booking holds no capacity to release")
	}
}

func TestCancelBooking_TerminalStatusRejected(t *testing.T) {
	for _, status := range []entity.BookingStatus{
		entity.BookingStatusFailed,
		entity.BookingStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			bookingRepo := &mockBookingRepo{
				getByIDForUpdateFn: func(ctx context.Context, q database.Executor, id uuid.UUID) (*entity.Booking, error) {
					return &entity.Booking{
						ID:        id,
						Status:    status,
						ExpiresAt: time.Now().Add(time.Minute),
					}, nil
				},
			}
			svc := NewBookingService(bookingRepo, &mockSlotRepo{})

			resp, appErr := svc.CancelBooking(context.Background(), uuid.New())
			if resp != nil {
				t.Fatalf("expected no response, got %+v", resp)
			}
			if appErr == nil || appErr.Code != errors.ErrInvalidStateTransition {
				t.Fatalf("expected %s error, got %+v", errors.ErrInvalidStateTransition, appErr)
			}
		})
	}
}

func TestCancelBooking_ReleaseGuardViolation(t *testing.T) {
	bookingRepo := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, q database.Executor, id uuid.UUID) (*entity.Booking, error) {
			return &entity.Booking{
				ID:        id,
				SlotID:    uuid.New(),
				NumSeats:  4,
				Status:    entity.BookingStatusConfirmed,
				ExpiresAt: time.Now().Add(time.Minute),
			}, nil
		},
	}
	slotRepo := &mockSlotRepo{
		releaseFn: func(ctx context.Context, q database.Executor, id uuid.UUID, seats int) (*slotentity.Slot, error) {
			// Guarded increment matched no row: remaining + seats > total.
			return nil, nil
		},
	}
	svc := NewBookingService(bookingRepo, slotRepo)

	resp, appErr := svc.CancelBooking(context.Background(), uuid.New())
	if resp != nil {
		t.Fatalf("expected no response, got %+v", resp)
	}
	if appErr == nil || appErr.Code != errors.ErrCapacityInvariant {
		t.Fatalf("expected %s error, got %+v", errors.ErrCapacityInvariant, appErr)
	}
}

func TestCancelBooking_Success(t *testing.T) {
	slot := testSlot(3, 10)
	id := uuid.New()

	bookingRepo := &mockBookingRepo{
		getByIDForUpdateFn: func(ctx context.Context, q database.Executor, bid uuid.UUID) (*entity.Booking, error) {
			return &entity.Booking{
				ID:        id,
				SlotID:    slot.ID,
				NumSeats:  2,
				Status:    entity.BookingStatusConfirmed,
				ExpiresAt: time.Now().Add(time.Minute),
			}, nil
		},
		updateStatusFn: func(ctx context.Context, q database.Executor, bid uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
			if status != entity.BookingStatusCancelled {
				t.Fatalf("expected transition to CANCELLED, got %s", status)
			}
			return &entity.Booking{ID: bid, SlotID: slot.ID, NumSeats: 2, Status: status}, nil
		},
	}
	slotRepo := &mockSlotRepo{
		releaseFn: func(ctx context.Context, q database.Executor, sid uuid.UUID, seats int) (*slotentity.Slot, error) {
			if seats != 2 {
				t.Fatalf("must release the booking's own seat count, got %d", seats)
			}
			updated := *slot
			updated.RemainingCapacity += seats
			return &updated, nil
		},
	}
	svc := NewBookingService(bookingRepo, slotRepo)

	resp, appErr := svc.CancelBooking(context.Background(), id)
	if appErr != nil {
		t.Fatalf("unexpected error: %+v", appErr)
	}
	if resp.Booking.Status != entity.BookingStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", resp.Booking.Status)
	}
	if resp.Slot == nil || resp.Slot.RemainingCapacity != 5 {
		t.Fatalf("expected slot with 5 remaining seats, got %+v", resp.Slot)
	}
}

func TestSweepExpired(t *testing.T) {
	expired := []entity.Booking{
		{ID: uuid.New(), Status: entity.BookingStatusFailed},
		{ID: uuid.New(), Status: entity.BookingStatusFailed},
	}
	bookingRepo := &mockBookingRepo{
		sweepExpiredFn: func(ctx context.Context) ([]entity.Booking, error) {
			return expired, nil
		},
	}
	svc := NewBookingService(bookingRepo, &mockSlotRepo{})

	got, appErr := svc.SweepExpired(context.Background())
	if appErr != nil {
		t.Fatalf("unexpected error: %+v", appErr)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 expired bookings, got %d", len(got))
	}
}

func TestListUserBookings_RequiresUserID(t *testing.T) {
	svc := NewBookingService(&mockBookingRepo{}, &mockSlotRepo{})

	bookings, appErr := svc.ListUserBookings(context.Background(), &dto.ListBookingsQuery{UserID: "  "})
	if bookings != nil {
		t.Fatalf("expected no bookings, got %+v", bookings)
	}
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected %s error, got %+v", errors.ErrInvalidInput, appErr)
	}
}

func TestListUserBookings_PassesStatusFilter(t *testing.T) {
	var gotStatus entity.BookingStatus
	bookingRepo := &mockBookingRepo{
		listByUserFn: func(ctx context.Context, userID string, status entity.BookingStatus) ([]entity.Booking, error) {
			gotStatus = status
			return []entity.Booking{{UserID: userID, Status: status}}, nil
		},
	}
	svc := NewBookingService(bookingRepo, &mockSlotRepo{})

	bookings, appErr := svc.ListUserBookings(context.Background(), &dto.ListBookingsQuery{
		UserID: "u1",
		Status: "CONFIRMED",
	})
	if appErr != nil {
		t.Fatalf("unexpected error: %+v", appErr)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	if gotStatus != entity.BookingStatusConfirmed {
		t.Fatalf("status filter not forwarded, got %q", gotStatus)
	}
}
