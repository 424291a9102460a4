package constants

import "time"

// Database pool settings.
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// HTTP settings.
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultBodyLimit      = "2M"
)

// Booking engine settings.
const (
	// BookingHoldWindow is how long a PENDING booking may exist before the
	// reaper marks it FAILED. Creation resolves status synchronously, so a
	// booking normally spends no observable time in PENDING.
	BookingHoldWindow = 2 * time.Minute

	// TaskSweepExpired is the asynq task type for the expiry reaper.
	TaskSweepExpired = "bookings:sweep_expired"
)

// Cache settings.
const (
	SlotCacheKeyPrefix = "slot:"
	SlotCacheTTL       = 30 * time.Second
)
