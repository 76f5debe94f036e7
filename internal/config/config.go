package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Twilio     TwilioConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds the attendance policy knobs.
type AttendanceConfig struct {
	// CutoffTime is the local time-of-day (HH:MM) after which staff with no
	// record for the day are swept into Absent.
	CutoffTime string
	// Timezone the cutoff is evaluated in, e.g. "Asia/Jakarta".
	Timezone string
	// RemoteLoginPromotes controls whether a login on a day already marked
	// Remote promotes status to Present. Work type stays Remote either way.
	RemoteLoginPromotes bool
	// SweepInterval is how often the background sweep job wakes up.
	SweepInterval time.Duration
}

// TwilioConfig holds the WhatsApp delivery channel credentials.
type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	WhatsAppNumber string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_portal"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance policy configuration
	sweepInterval, err := time.ParseDuration(getEnv("ATTENDANCE_SWEEP_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_SWEEP_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		CutoffTime:          getEnv("ATTENDANCE_CUTOFF_TIME", "09:00"),
		Timezone:            getEnv("ATTENDANCE_TIMEZONE", "UTC"),
		RemoteLoginPromotes: getEnvBool("ATTENDANCE_REMOTE_LOGIN_PROMOTES", true),
		SweepInterval:       sweepInterval,
	}

	// Twilio WhatsApp configuration
	config.Twilio = TwilioConfig{
		AccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		AuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		WhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.Parse("15:04", c.Attendance.CutoffTime); err != nil {
		return fmt.Errorf("ATTENDANCE_CUTOFF_TIME must be HH:MM: %w", err)
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}
	// Twilio credentials are optional; without them the dispatcher records
	// every delivery attempt as failed instead of sending.
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// CutoffClock returns the configured cutoff as hour and minute.
func (c *AttendanceConfig) CutoffClock() (hour, minute int) {
	t, err := time.Parse("15:04", c.CutoffTime)
	if err != nil {
		return 9, 0
	}
	return t.Hour(), t.Minute()
}

// Location resolves the configured timezone.
func (c *AttendanceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
