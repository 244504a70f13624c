// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	minSecretLength = 16
)

type Config struct {
	// HTTP server
	Port            string
	CORSOrigins     string
	ShutdownTimeout time.Duration

	// Database
	DBPath string

	// Auth
	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	AuthRateLimit  int
	AuthRateWindow time.Duration
	// Comma separated CIDRs whose forwarded headers are believed
	TrustedProxies string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	AppEnv    string
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DBPath: getEnv("DB_PATH", "cointrack.db"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTTTL:         getEnvDuration("JWT_TTL", 7*24*time.Hour),
		BcryptCost:     getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getEnvDuration("AUTH_RATE_WINDOW", time.Minute),
		TrustedProxies: getEnv("TRUSTED_PROXIES", "127.0.0.0/8,::1/128"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cointrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		AppEnv:    strings.ToLower(getEnv("APP_ENV", EnvProduction)),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
}

// IsDevelopment reports whether internal error detail may be sent to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// AMQPEnabled reports whether ledger events are published to a broker.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// TrustedProxyCIDRs splits TrustedProxies into its entries.
func (c *Config) TrustedProxyCIDRs() []string {
	var out []string
	for _, cidr := range strings.Split(c.TrustedProxies, ",") {
		if cidr = strings.TrimSpace(cidr); cidr != "" {
			out = append(out, cidr)
		}
	}
	return out
}

// Validate returns every configuration problem in a single error.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	} else if len(c.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Sprintf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.JWTTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid JWT_TTL %v: must be at least 1 minute", c.JWTTTL))
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Sprintf("invalid BCRYPT_COST %d: must be between %d and %d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	validEnvs := []string{EnvDevelopment, EnvProduction, EnvTest}
	if !slices.Contains(validEnvs, c.AppEnv) {
		errs = append(errs, fmt.Sprintf("invalid APP_ENV '%s': must be one of %v", c.AppEnv, validEnvs))
	}

	validFormats := []string{"text", "json"}
	if !slices.Contains(validFormats, c.LogFormat) {
		errs = append(errs, fmt.Sprintf("invalid LOG_FORMAT '%s': must be one of %v", c.LogFormat, validFormats))
	}

	if c.AuthRateLimit < 0 {
		errs = append(errs, fmt.Sprintf("invalid AUTH_RATE_LIMIT %d: must not be negative", c.AuthRateLimit))
	}
	if c.AuthRateWindow < time.Second {
		errs = append(errs, fmt.Sprintf("invalid AUTH_RATE_WINDOW %v: must be at least 1 second", c.AuthRateWindow))
	}
	for _, cidr := range c.TrustedProxyCIDRs() {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errs = append(errs, fmt.Sprintf("invalid TRUSTED_PROXIES entry '%s': must be a CIDR", cidr))
		}
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("invalid SHUTDOWN_TIMEOUT %v: must be positive", c.ShutdownTimeout))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
