package router

import (
	"go-booking-api/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

// BookingRouter handles booking routes
type BookingRouter struct {
	BookingController *controller.BookingController
}

func NewBookingRouter(bookingController *controller.BookingController) *BookingRouter {
	return &BookingRouter{
		BookingController: bookingController,
	}
}

// Setup registers booking routes
func (r *BookingRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	bookingRoutes := v1.Group("/bookings")
	bookingRoutes.POST("", r.BookingController.CreateBooking)
	bookingRoutes.GET("", r.BookingController.ListBookings)
	bookingRoutes.GET("/:id", r.BookingController.GetBooking)
	bookingRoutes.POST("/:id/cancel", r.BookingController.CancelBooking)

	// Operator trigger for the expiry reaper
	adminRoutes := v1.Group("/admin")
	adminRoutes.POST("/expire-pending", r.BookingController.ExpirePending)
}
