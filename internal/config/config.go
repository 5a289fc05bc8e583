// Package config загрузка конфигурации сервиса из TOML файла.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Sync     SyncConfig     `toml:"sync"`
	Google   GoogleConfig   `toml:"google"`
	Cron     CronConfig     `toml:"cron"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig политики бронирования.
// Окно check-in и grace period для no-show заданы конфигурацией,
// а не константами в бизнес-коде.
type BookingConfig struct {
	CheckInEarlyMinutes        int `toml:"check_in_early_minutes"`
	CheckInLateMinutes         int `toml:"check_in_late_minutes"`
	NoShowGraceMinutes         int `toml:"no_show_grace_minutes"`
	QuickBookingDefaultMinutes int `toml:"quick_booking_default_minutes"`
	QuickBookingMaxMinutes     int `toml:"quick_booking_max_minutes"`
	SlotStepMinutes            int `toml:"slot_step_minutes"`
	DayStartHour               int `toml:"day_start_hour"`
	DayEndHour                 int `toml:"day_end_hour"`
}

// SyncConfig настройки синхронизации с внешним календарем
type SyncConfig struct {
	CreationGraceMinutes int `toml:"creation_grace_minutes"`
	MinIntervalSeconds   int `toml:"min_interval_seconds"`
	LookbehindHours      int `toml:"lookbehind_hours"`
	LookaheadDays        int `toml:"lookahead_days"`
}

// GoogleConfig настройки клиента Google Calendar API
type GoogleConfig struct {
	BaseURL           string  `toml:"base_url"`
	CredentialsFile   string  `toml:"credentials_file"`
	Timeout           int     `toml:"timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// CronConfig настройки cron эндпоинтов
type CronConfig struct {
	AuthToken string `toml:"auth_token"`
}

// Load читает конфигурацию из TOML файла и подставляет дефолты
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}

	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "room-booking-service"
	}

	if cfg.Booking.CheckInEarlyMinutes == 0 {
		cfg.Booking.CheckInEarlyMinutes = 10
	}
	if cfg.Booking.CheckInLateMinutes == 0 {
		cfg.Booking.CheckInLateMinutes = 15
	}
	if cfg.Booking.NoShowGraceMinutes == 0 {
		cfg.Booking.NoShowGraceMinutes = 15
	}
	if cfg.Booking.QuickBookingDefaultMinutes == 0 {
		cfg.Booking.QuickBookingDefaultMinutes = 30
	}
	if cfg.Booking.QuickBookingMaxMinutes == 0 {
		cfg.Booking.QuickBookingMaxMinutes = 240
	}
	if cfg.Booking.SlotStepMinutes == 0 {
		cfg.Booking.SlotStepMinutes = 30
	}
	if cfg.Booking.DayStartHour == 0 {
		cfg.Booking.DayStartHour = 8
	}
	if cfg.Booking.DayEndHour == 0 {
		cfg.Booking.DayEndHour = 20
	}

	if cfg.Sync.CreationGraceMinutes == 0 {
		cfg.Sync.CreationGraceMinutes = 5
	}
	if cfg.Sync.MinIntervalSeconds == 0 {
		cfg.Sync.MinIntervalSeconds = 60
	}
	if cfg.Sync.LookbehindHours == 0 {
		cfg.Sync.LookbehindHours = 24
	}
	if cfg.Sync.LookaheadDays == 0 {
		cfg.Sync.LookaheadDays = 30
	}

	if cfg.Google.BaseURL == "" {
		cfg.Google.BaseURL = "https://www.googleapis.com/calendar/v3"
	}
	if cfg.Google.Timeout == 0 {
		cfg.Google.Timeout = 10
	}
	if cfg.Google.RequestsPerSecond == 0 {
		cfg.Google.RequestsPerSecond = 5
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if cfg.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if cfg.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	return nil
}
