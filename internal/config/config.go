package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Redis          RedisConfig          `toml:"redis"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Logs           LogsConfig           `toml:"logs"`
	Booking        BookingConfig        `toml:"booking"`
	PatientService PatientServiceConfig `toml:"patient_service"`
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
	// MigrationsPath путь к миграциям; пустая строка отключает автоматическое применение
	MigrationsPath string `toml:"migrations_path"`
}

// DSN возвращает строку подключения PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig настройки кеша каталога
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// BookingConfig настройки поиска слотов
type BookingConfig struct {
	// SlotStepMinutes шаг перебора кандидатов начала записи
	SlotStepMinutes int `toml:"slot_step_minutes"`
	// SearchHorizonDays горизонт умного поиска по дням
	SearchHorizonDays int `toml:"search_horizon_days"`
}

// PatientServiceConfig настройки клиента PatientService
type PatientServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load загружает конфигурацию из toml-файла и подставляет дефолты
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if cfg.Booking.SlotStepMinutes == 0 {
		cfg.Booking.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}
	if cfg.Booking.SearchHorizonDays == 0 {
		cfg.Booking.SearchHorizonDays = domain.DefaultSearchHorizonDays
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Booking.SlotStepMinutes < domain.MinSlotStepMinutes || c.Booking.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("config: booking.slot_step_minutes must be between %d and %d",
			domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}
	if c.Booking.SearchHorizonDays < 1 || c.Booking.SearchHorizonDays > domain.MaxSearchHorizonDays {
		return fmt.Errorf("config: booking.search_horizon_days must be between 1 and %d",
			domain.MaxSearchHorizonDays)
	}
	return nil
}
