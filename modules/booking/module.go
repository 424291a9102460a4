package booking

import (
	"go-booking-api/core/database"
	"go-booking-api/modules/booking/controller"
	"go-booking-api/modules/booking/repository"
	"go-booking-api/modules/booking/router"
	"go-booking-api/modules/booking/service"
	slotrepository "go-booking-api/modules/slot/repository"

	"github.com/labstack/echo/v4"
)

// Init initializes the booking module and registers routes. The service is
// returned so the background worker can run the expiry sweep.
func Init(e *echo.Echo, db database.IDatabase, slotRepo *slotrepository.SlotRepository) service.BookingServiceInterface {
	repo := repository.NewBookingRepository(db)
	svc := service.NewBookingService(repo, slotRepo)
	ctrl := controller.NewBookingController(svc)
	rtr := router.NewBookingRouter(ctrl)

	rtr.Setup(e)

	return svc
}
