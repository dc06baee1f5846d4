package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	AppEnv  string `mapstructure:"APP_ENV"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	MySQLHost  string `mapstructure:"MYSQL_HOST"`
	MySQLPort  string `mapstructure:"MYSQL_PORT"`
	MySQLDB    string `mapstructure:"MYSQL_DB"`
	MySQLUser  string `mapstructure:"MYSQL_USER"`
	MySQLPass  string `mapstructure:"MYSQL_PASS"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	IdempTTLSecs  int    `mapstructure:"IDEMPOTENCY_TTL_SECONDS"`
	EventsChannel string `mapstructure:"EVENTS_CHANNEL"`

	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTTTL            time.Duration `mapstructure:"JWT_TTL"`
	AllowAdminSignup  bool          `mapstructure:"ALLOW_ADMIN_SIGNUP"`
	AdminSeedEmail    string        `mapstructure:"ADMIN_SEED_EMAIL"`
	AdminSeedPassword string        `mapstructure:"ADMIN_SEED_PASSWORD"`

	UploadDir     string `mapstructure:"UPLOAD_DIR"`
	UploadBaseURL string `mapstructure:"UPLOAD_BASE_URL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	EligibilityMultiplier string `mapstructure:"ELIGIBILITY_MULTIPLIER"`
	LoanTermDays          int    `mapstructure:"LOAN_TERM_DAYS"`

	ReminderCron       string `mapstructure:"REMINDER_CRON"`
	ReminderWindowDays int    `mapstructure:"REMINDER_WINDOW_DAYS"`
}

var defaults = map[string]any{
	"APP_PORT":                "8080",
	"APP_ENV":                 "development",
	"DB_DRIVER":               "mysql",
	"MYSQL_HOST":              "mysql",
	"MYSQL_PORT":              "3306",
	"MYSQL_DB":                "agrolend",
	"MYSQL_USER":              "agrolend",
	"MYSQL_PASS":              "agrolend",
	"SQLITE_PATH":             "agrolend.db",
	"REDIS_ADDR":              "redis:6379",
	"REDIS_DB":                0,
	"IDEMPOTENCY_TTL_SECONDS": 300,
	"EVENTS_CHANNEL":          "agrolend:events",
	"JWT_SECRET":              "",
	"JWT_TTL":                 "24h",
	"ALLOW_ADMIN_SIGNUP":      false,
	"ADMIN_SEED_EMAIL":        "",
	"ADMIN_SEED_PASSWORD":     "",
	"UPLOAD_DIR":              "./uploads",
	"UPLOAD_BASE_URL":         "/uploads",
	"LOG_LEVEL":               "info",
	"LOG_FORMAT":              "json",
	"ELIGIBILITY_MULTIPLIER":  "10",
	"LOAN_TERM_DAYS":          365,
	"REMINDER_CRON":           "0 0 8 * * *",
	"REMINDER_WINDOW_DAYS":    7,
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	// a missing .env is fine
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	m, err := decimal.NewFromString(c.EligibilityMultiplier)
	if err != nil {
		return fmt.Errorf("ELIGIBILITY_MULTIPLIER must be a valid decimal: %w", err)
	}
	if !m.IsPositive() {
		return errors.New("ELIGIBILITY_MULTIPLIER must be greater than 0")
	}
	if c.LoanTermDays <= 0 {
		return errors.New("LOAN_TERM_DAYS must be greater than 0")
	}
	if c.ReminderWindowDays < 0 {
		return errors.New("REMINDER_WINDOW_DAYS must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" || c.AppEnv == "prod" }

// Multiplier returns the eligibility policy constant. Call after Validate.
func (c *Config) Multiplier() decimal.Decimal {
	m, _ := decimal.NewFromString(c.EligibilityMultiplier)
	return m
}

func (c *Config) LoanTerm() time.Duration { return time.Duration(c.LoanTermDays) * 24 * time.Hour }

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) ReminderWindow() time.Duration {
	return time.Duration(c.ReminderWindowDays) * 24 * time.Hour
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME; clientFoundRows makes conditional updates report matched rows
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&clientFoundRows=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
