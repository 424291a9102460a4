package controller

import (
	"go-booking-api/core/controller"
	"go-booking-api/core/errors"
	"go-booking-api/modules/booking/dto"
	"go-booking-api/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BookingController handles booking HTTP requests
type BookingController struct {
	controller.BaseController
	BookingService service.BookingServiceInterface
}

func NewBookingController(svc service.BookingServiceInterface) *BookingController {
	return &BookingController{
		BaseController: controller.NewBaseController(),
		BookingService: svc,
	}
}

// CreateBooking handles POST /bookings
// @Summary Reserve seats against a slot
// @Description Atomically reserves seats; responds 201 with the booking in
// @Description status CONFIRMED, or FAILED when capacity ran out.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking data"
// @Success 201 {object} entity.Booking
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /bookings [post]
func (c *BookingController) CreateBooking(ctx echo.Context) error {
	var req dto.CreateBookingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	result, appErr := c.BookingService.CreateBooking(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Booking processed")
}

// GetBooking handles GET /bookings/:id
// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} entity.Booking
// @Failure 404 {object} errors.AppError
// @Router /bookings/{id} [get]
func (c *BookingController) GetBooking(ctx echo.Context) error {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	result, appErr := c.BookingService.GetBookingByID(ctx.Request().Context(), bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// CancelBooking handles POST /bookings/:id/cancel
// @Summary Cancel a confirmed booking
// @Description Releases the booking's seats back to the slot. Cancelling an
// @Description expired PENDING booking resolves it to FAILED.
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.CancelBookingResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /bookings/{id}/cancel [post]
func (c *BookingController) CancelBooking(ctx echo.Context) error {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	result, appErr := c.BookingService.CancelBooking(ctx.Request().Context(), bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	if result == nil {
		return c.NotFound(errors.ErrNotFound, "Booking not found")
	}

	return c.SuccessResponse(ctx, result, "Booking cancelled")
}

// ListBookings handles GET /bookings
// @Summary List a user's bookings
// @Tags Bookings
// @Produce json
// @Param user_id query string true "Requester id"
// @Param status query string false "Filter by status"
// @Success 200 {array} entity.Booking
// @Router /bookings [get]
func (c *BookingController) ListBookings(ctx echo.Context) error {
	var query dto.ListBookingsQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}
	if err := ctx.Validate(&query); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	result, appErr := c.BookingService.ListUserBookings(ctx.Request().Context(), &query)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ExpirePending handles POST /admin/expire-pending
// @Summary Sweep expired pending bookings
// @Description Marks every PENDING booking past its expiry as FAILED and
// @Description returns the affected set. Safe to invoke repeatedly.
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.SweepExpiredResponse
// @Router /admin/expire-pending [post]
func (c *BookingController) ExpirePending(ctx echo.Context) error {
	expired, appErr := c.BookingService.SweepExpired(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	resp := &dto.SweepExpiredResponse{
		ExpiredCount: len(expired),
		Expired:      expired,
	}
	return c.SuccessResponse(ctx, resp, "Sweep completed")
}
