package controller

import (
	"go-booking-api/core/controller"
	"go-booking-api/core/errors"
	"go-booking-api/modules/slot/dto"
	"go-booking-api/modules/slot/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SlotController handles slot HTTP requests
type SlotController struct {
	controller.BaseController
	SlotService service.SlotServiceInterface
}

func NewSlotController(svc service.SlotServiceInterface) *SlotController {
	return &SlotController{
		BaseController: controller.NewBaseController(),
		SlotService:    svc,
	}
}

// CreateSlot handles POST /admin/slots
// @Summary Create an appointment slot
// @Description Provision a new bookable slot with a fixed total capacity
// @Tags Slots
// @Accept json
// @Produce json
// @Param request body dto.CreateSlotRequest true "Slot data"
// @Success 201 {object} entity.Slot
// @Failure 400 {object} errors.AppError
// @Router /admin/slots [post]
func (c *SlotController) CreateSlot(ctx echo.Context) error {
	var req dto.CreateSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	result, appErr := c.SlotService.CreateSlot(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Slot created successfully")
}

// ListSlots handles GET /admin/slots
// @Summary List slots (admin)
// @Description List all slots with optional doctor/specialization/time filters
// @Tags Slots
// @Produce json
// @Param doctor_name query string false "Filter by doctor name (partial match)"
// @Param specialization query string false "Filter by specialization (partial match)"
// @Param from query string false "start_time lower bound (RFC3339)"
// @Param to query string false "start_time upper bound (RFC3339)"
// @Success 200 {array} entity.Slot
// @Router /admin/slots [get]
func (c *SlotController) ListSlots(ctx echo.Context) error {
	var query dto.ListSlotsQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}

	result, appErr := c.SlotService.ListSlots(ctx.Request().Context(), &query)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListAvailableSlots handles GET /slots
// @Summary List available slots
// @Description List upcoming slots that still have remaining capacity
// @Tags Slots
// @Produce json
// @Param doctor_name query string false "Filter by doctor name (partial match)"
// @Param specialization query string false "Filter by specialization (partial match)"
// @Param date query string false "Limit to one day (YYYY-MM-DD)"
// @Success 200 {array} entity.Slot
// @Router /slots [get]
func (c *SlotController) ListAvailableSlots(ctx echo.Context) error {
	var query dto.AvailableSlotsQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}

	result, appErr := c.SlotService.ListAvailableSlots(ctx.Request().Context(), &query)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetSlot handles GET /slots/:id
// @Summary Get a slot
// @Tags Slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} entity.Slot
// @Failure 404 {object} errors.AppError
// @Router /slots/{id} [get]
func (c *SlotController) GetSlot(ctx echo.Context) error {
	slotID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid slot ID")
	}

	result, appErr := c.SlotService.GetSlotByID(ctx.Request().Context(), slotID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
