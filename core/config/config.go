package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type BookingConfig struct {
	// SweepInterval is the cadence of the background expiry reaper,
	// in cron/interval syntax understood by the asynq scheduler.
	SweepInterval string
}

type Config struct {
	Env      string
	LogLevel string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
}

var instance *Config

// Load reads configuration from the environment (and .env if present).
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 7070)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_DATABASE", "bookings")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SWEEP_INTERVAL", "@every 1m")

	cfg := &Config{
		Env:      v.GetString("ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Host: v.GetString("HOST"),
			Port: v.GetInt("PORT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_DATABASE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Booking: BookingConfig{
			SweepInterval: v.GetString("SWEEP_INTERVAL"),
		},
	}

	if cfg.Database.User == "" || cfg.Database.DBName == "" {
		return nil, fmt.Errorf("database configuration incomplete: DB_USER and DB_DATABASE are required")
	}

	instance = cfg
	return cfg, nil
}

// Get returns the loaded configuration. Panics if Load was never called.
func Get() *Config {
	if instance == nil {
		panic("config.Get called before config.Load")
	}
	return instance
}

// GetSafe returns the configuration and whether it has been loaded.
func GetSafe() (*Config, bool) {
	return instance, instance != nil
}
