package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)

	assert.Equal(t, "FR", cfg.Cart.DefaultCountry)
	assert.True(t, cfg.Cart.DefaultTaxInclusive)
	assert.True(t, cfg.Cart.ZeroTaxClearsInclusive)
	assert.Equal(t, 100, cfg.Cart.MaxPageSize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VATCART_SERVER_PORT", ":9090")
	t.Setenv("VATCART_DB_HOST", "db.internal")
	t.Setenv("VATCART_CART_DEFAULT_COUNTRY", " be ")
	t.Setenv("VATCART_CART_DEFAULT_TAX_INCLUSIVE", "false")
	t.Setenv("VATCART_CART_ZERO_TAX_CLEARS_INCLUSIVE", "false")
	t.Setenv("VATCART_CORS_ALLOWED_ORIGINS", "https://shop.example, ,https://admin.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "BE", cfg.Cart.DefaultCountry)
	assert.False(t, cfg.Cart.DefaultTaxInclusive)
	assert.False(t, cfg.Cart.ZeroTaxClearsInclusive)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("VATCART_SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Port)
}

func TestLoad_RejectsBadPageSize(t *testing.T) {
	t.Setenv("VATCART_CART_MAX_PAGE_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	d := DBConfig{Host: "h", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p@h:5433/n?sslmode=require", d.DSN())
}

func TestLoad_RateLimit(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.RateLimit.Enabled())
	assert.Equal(t, 40, cfg.RateLimit.Burst)

	t.Setenv("VATCART_RATE_LIMIT_REQUESTS_PER_SECOND", "0")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.RateLimit.Enabled())
}
