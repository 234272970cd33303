package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, перекрывающих значения из файла
const EnvPrefix = "APPT"

// Допустимые значения ledger.durable
const (
	DurablePostgres = "postgres"
	DurableDynamoDB = "dynamodb"
	DurableNone     = "none"
)

// Допустимые значения email.provider
const (
	EmailProviderSendGrid = "sendgrid"
	EmailProviderSES      = "ses"
	EmailProviderLog      = "log"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server" envconfig:"SERVER"`
	Logs     LogsConfig     `toml:"logs" envconfig:"LOGS"`
	Metrics  MetricsConfig  `toml:"metrics" envconfig:"METRICS"`
	Tracing  TracingConfig  `toml:"tracing" envconfig:"TRACING"`
	Database DatabaseConfig `toml:"database" envconfig:"DATABASE"`
	DynamoDB DynamoDBConfig `toml:"dynamodb" envconfig:"DYNAMODB"`
	Ledger   LedgerConfig   `toml:"ledger" envconfig:"LEDGER"`
	Auth     AuthConfig     `toml:"auth" envconfig:"AUTH"`
	Email    EmailConfig    `toml:"email" envconfig:"EMAIL"`
	Schedule ScheduleConfig `toml:"schedule" ignored:"true"`
}

// ServerConfig параметры HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level" split_words:"true"`
	File  string `toml:"file" split_words:"true"`
}

// MetricsConfig параметры Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
}

// TracingConfig параметры OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `toml:"enabled" split_words:"true"`
	Endpoint    string  `toml:"endpoint" split_words:"true"`
	Insecure    bool    `toml:"insecure" split_words:"true"`
	SampleRatio float64 `toml:"sample_ratio" split_words:"true"`
	Environment string  `toml:"environment" split_words:"true"`
}

// DatabaseConfig параметры PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate" split_words:"true"`
}

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// DynamoDBConfig параметры DynamoDB леджера
type DynamoDBConfig struct {
	Table    string `toml:"table" split_words:"true"`
	Region   string `toml:"region" split_words:"true"`
	Endpoint string `toml:"endpoint" split_words:"true"` // dynamodb-local
}

// LedgerConfig выбор durable леджера и параметры transient леджера
type LedgerConfig struct {
	Durable    string `toml:"durable" split_words:"true"`
	TimeoutMS  int    `toml:"timeout_ms" split_words:"true"`
	SeedMemory bool   `toml:"seed_memory" split_words:"true"`
}

// Timeout возвращает ограничение на один вызов durable леджера
func (c LedgerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// AuthConfig параметры проверки bearer токенов
type AuthConfig struct {
	JWTSecret       string   `toml:"jwt_secret" split_words:"true"`
	AllowUnverified bool     `toml:"allow_unverified" split_words:"true"`
	AdminEmails     []string `toml:"admin_emails" split_words:"true"`
}

// EmailConfig параметры отправки уведомлений
type EmailConfig struct {
	Provider       string `toml:"provider" split_words:"true"`
	FromEmail      string `toml:"from_email" split_words:"true"`
	FromName       string `toml:"from_name" split_words:"true"`
	SendGridAPIKey string `toml:"sendgrid_api_key" split_words:"true"`
	SESRegion      string `toml:"ses_region" split_words:"true"`
	Timeout        int    `toml:"timeout" split_words:"true"` // секунды
}

// ScheduleConfig расписание по умолчанию и переопределения по врачам
type ScheduleConfig struct {
	Default DoctorSchedule   `toml:"default"`
	Doctors []DoctorSchedule `toml:"doctors"`
}

// DoctorSchedule расписание врача в конфиге. Дни недели: 0=воскресенье ... 6=суббота
type DoctorSchedule struct {
	DoctorID            string   `toml:"doctor_id"`
	AvailableDays       []int    `toml:"available_days"`
	TimeSlots           []string `toml:"time_slots"`
	SlotDurationMinutes int      `toml:"slot_duration_minutes"`
}

// Load загружает конфигурацию: значения по умолчанию, затем TOML файл,
// затем .env и переменные окружения с префиксом APPT_
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv как Load, но путь к файлу берется из APPT_CONFIG (по умолчанию config.toml)
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvPrefix + "_CONFIG")
	if path == "" {
		path = "config.toml"
	}
	return Load(path)
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			ServiceName: "appointment-service",
			Path:        "/metrics",
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4317",
			Insecure:    true,
			SampleRatio: 1,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "appointments",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		DynamoDB: DynamoDBConfig{
			Table:  "appointments",
			Region: "us-east-1",
		},
		Ledger: LedgerConfig{
			Durable:    DurablePostgres,
			TimeoutMS:  3000,
			SeedMemory: true,
		},
		Email: EmailConfig{
			Provider:  EmailProviderLog,
			FromEmail: "noreply@careclarity.app",
			FromName:  "CareClarity",
			Timeout:   10,
		},
	}
}
