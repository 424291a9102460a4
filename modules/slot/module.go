package slot

import (
	"go-booking-api/core/database"
	"go-booking-api/modules/slot/controller"
	"go-booking-api/modules/slot/repository"
	"go-booking-api/modules/slot/router"
	"go-booking-api/modules/slot/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the slot module and registers routes. The repository is
// returned so the booking module can reserve and release capacity inside its
// own transactions.
func Init(e *echo.Echo, db database.IDatabase) *repository.SlotRepository {
	repo := repository.NewSlotRepository(db)
	svc := service.NewSlotService(repo)
	ctrl := controller.NewSlotController(svc)
	rtr := router.NewSlotRouter(ctrl)

	rtr.Setup(e)

	return repo
}
