package main

import (
	"go-booking-api/core/logger"
	"go-booking-api/core/server"
)

// @title Appointment Booking API
// @version 1.0
// @description Finite-capacity appointment slots and the bookings that reserve seats against them.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
