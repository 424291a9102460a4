package router

import (
	"go-booking-api/modules/slot/controller"

	"github.com/labstack/echo/v4"
)

// SlotRouter handles slot routes
type SlotRouter struct {
	SlotController *controller.SlotController
}

func NewSlotRouter(slotController *controller.SlotController) *SlotRouter {
	return &SlotRouter{
		SlotController: slotController,
	}
}

// Setup registers slot routes
func (r *SlotRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	// Public availability endpoints
	v1.GET("/slots", r.SlotController.ListAvailableSlots)
	v1.GET("/slots/:id", r.SlotController.GetSlot)

	// Admin provisioning endpoints
	adminRoutes := v1.Group("/admin")
	adminRoutes.POST("/slots", r.SlotController.CreateSlot)
	adminRoutes.GET("/slots", r.SlotController.ListSlots)
}
