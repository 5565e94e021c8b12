package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Log       LogConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Cart      CartConfig
}

// RateLimitConfig throttles /api/v1 per client IP. A zero rate disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Enabled reports whether requests should be throttled.
func (r RateLimitConfig) Enabled() bool { return r.RequestsPerSecond > 0 }

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CartConfig holds the defaults applied to carts whose request omits them.
type CartConfig struct {
	DefaultCountry         string `mapstructure:"default_country"`
	DefaultTaxInclusive    bool   `mapstructure:"default_tax_inclusive"`
	ZeroTaxClearsInclusive bool   `mapstructure:"zero_tax_clears_inclusive"`
	MaxItems               int    `mapstructure:"max_items"`
	MaxPageSize            int    `mapstructure:"max_page_size"`
}

// Load reads configuration from environment variables with the VATCART_ prefix.
// A .env file in the working directory is read first; variables already set in
// the environment take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("VATCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "vatcart")
	v.SetDefault("db.password", "vatcart_secret")
	v.SetDefault("db.name", "vatcart_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Rate limit defaults
	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)

	// Cart defaults
	v.SetDefault("cart.default_country", "FR")
	v.SetDefault("cart.default_tax_inclusive", true)
	v.SetDefault("cart.zero_tax_clears_inclusive", true)
	v.SetDefault("cart.max_items", 500)
	v.SetDefault("cart.max_page_size", 100)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "VATCART_SERVER_PORT",
		"server.read_timeout":            "VATCART_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "VATCART_SERVER_WRITE_TIMEOUT",
		"server.environment":             "VATCART_SERVER_ENVIRONMENT",
		"db.host":                        "VATCART_DB_HOST",
		"db.port":                        "VATCART_DB_PORT",
		"db.user":                        "VATCART_DB_USER",
		"db.password":                    "VATCART_DB_PASSWORD",
		"db.name":                        "VATCART_DB_NAME",
		"db.sslmode":                     "VATCART_DB_SSLMODE",
		"db.max_open":                    "VATCART_DB_MAX_OPEN",
		"db.max_idle":                    "VATCART_DB_MAX_IDLE",
		"log.level":                      "VATCART_LOG_LEVEL",
		"log.format":                     "VATCART_LOG_FORMAT",
		"cors.allowed_origins":           "VATCART_CORS_ALLOWED_ORIGINS",
		"rate_limit.requests_per_second": "VATCART_RATE_LIMIT_REQUESTS_PER_SECOND",
		"rate_limit.burst":               "VATCART_RATE_LIMIT_BURST",
		"cart.default_country":           "VATCART_CART_DEFAULT_COUNTRY",
		"cart.default_tax_inclusive":     "VATCART_CART_DEFAULT_TAX_INCLUSIVE",
		"cart.zero_tax_clears_inclusive": "VATCART_CART_ZERO_TAX_CLEARS_INCLUSIVE",
		"cart.max_items":                 "VATCART_CART_MAX_ITEMS",
		"cart.max_page_size":             "VATCART_CART_MAX_PAGE_SIZE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if VATCART_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("VATCART_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: v.GetFloat64("rate_limit.requests_per_second"),
		Burst:             v.GetInt("rate_limit.burst"),
	}

	cfg.Cart = CartConfig{
		DefaultCountry:         strings.ToUpper(strings.TrimSpace(v.GetString("cart.default_country"))),
		DefaultTaxInclusive:    v.GetBool("cart.default_tax_inclusive"),
		ZeroTaxClearsInclusive: v.GetBool("cart.zero_tax_clears_inclusive"),
		MaxItems:               v.GetInt("cart.max_items"),
		MaxPageSize:            v.GetInt("cart.max_page_size"),
	}
	if cfg.Cart.DefaultCountry == "" {
		return nil, fmt.Errorf("cart.default_country must not be empty")
	}
	if cfg.Cart.MaxPageSize <= 0 {
		return nil, fmt.Errorf("cart.max_page_size must be positive, got %d", cfg.Cart.MaxPageSize)
	}

	return cfg, nil
}
