package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	// AppURL is embedded in QR payloads as the verification base URL.
	AppURL   string
	LogLevel string

	DBDriver string // mysql | postgres | sqlite

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	PostgresDSN string
	SQLitePath  string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	UploadDir      string
	MaxUploadBytes int64

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	JWTSecret     string
	JWTTTLMinutes int

	// PermissiveOTP accepts any 6-digit code. Test affordance only.
	PermissiveOTP bool
	// ExposeOTP echoes the issued code in the initiate response.
	ExposeOTP bool

	NotifyInterval      time.Duration
	PaymentLatencyScale float64
	PickupRetryBase     time.Duration

	LoginMaxFailures int
	LoginWindow      time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getbool(k string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(k)))
	return b
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		AppURL:   strings.TrimRight(getenv("APP_URL", "http://localhost:3000"), "/"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:  strings.ToLower(getenv("DB_DRIVER", "mysql")),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "dlportal"),
		MySQLUser: getenv("MYSQL_USER", "dlportal"),
		MySQLPass: getenv("MYSQL_PASS", "dlportal"),

		PostgresDSN: getenv("POSTGRES_DSN", ""),
		SQLitePath:  getenv("SQLITE_PATH", "dlportal.db"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getint("REDIS_DB", 0),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(getint("MAX_UPLOAD_BYTES", 5<<20)),

		SMTPHost: getenv("SMTP_HOST", ""),
		SMTPPort: getenv("SMTP_PORT", "587"),
		SMTPUser: getenv("SMTP_USER", ""),
		SMTPPass: getenv("SMTP_PASS", ""),
		SMTPFrom: getenv("SMTP_FROM", "no-reply@dlportal.local"),

		JWTSecret:     getenv("JWT_SECRET", ""),
		JWTTTLMinutes: getint("JWT_TTL_MINUTES", 60),

		PermissiveOTP: getbool("PERMISSIVE_OTP"),
		ExposeOTP:     getbool("EXPOSE_OTP"),

		NotifyInterval:      time.Duration(getint("NOTIFY_INTERVAL_MS", 1000)) * time.Millisecond,
		PaymentLatencyScale: 1,
		PickupRetryBase:     time.Duration(getint("PICKUP_RETRY_BASE_MS", 1000)) * time.Millisecond,

		LoginMaxFailures: getint("LOGIN_MAX_FAILURES", 5),
		LoginWindow:      time.Duration(getint("LOGIN_WINDOW_SECONDS", 900)) * time.Second,
	}
	if v := os.Getenv("PAYMENT_LATENCY_SCALE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.PaymentLatencyScale = f
		}
	}
	return c
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
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return c.PostgresDSN
	case "sqlite":
		return c.SQLitePath
	default:
		return c.MySQLDSN()
	}
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func (c *Config) SMTPEnabled() bool { return c.SMTPHost != "" }
