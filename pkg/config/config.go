package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Stock    StockConfig
	Payment  PaymentConfig
	Checkout CheckoutConfig
	Catalog  CatalogConfig
	Redis    RedisConfig
	HTTP     HTTPConfig
	Session  SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if len(cfg.Catalog.Products) == 0 {
		return nil, fmt.Errorf("%s must list at least one product", EnvCatalog)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StockConfig points at the availability endpoint queried once at startup.
type StockConfig struct {
	URL     string        `envconfig:"STOREFRONT_STOCK_URL" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_STOCK_TIMEOUT" default:"10s"`
}

// PaymentConfig points at the backend that exchanges an order for a payment token.
type PaymentConfig struct {
	TransactionURL string        `envconfig:"STOREFRONT_PAYMENT_TRANSACTION_URL" required:"true"`
	Timeout        time.Duration `envconfig:"STOREFRONT_PAYMENT_TIMEOUT" default:"15s"`
}

type CheckoutConfig struct {
	ConfirmationURL string `envconfig:"STOREFRONT_CHECKOUT_CONFIRMATION_URL" default:"verifed.html"`
}

type CatalogConfig struct {
	Products Catalog `envconfig:"STOREFRONT_CATALOG" default:"Google Ultra|googleUltra|150000;Firefly|firefly|50000"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis URL was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type HTTPConfig struct {
	CORSOrigins     []string      `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"STOREFRONT_SHUTDOWN_TIMEOUT" default:"10s"`
}

// SessionConfig controls how long idle shopper sessions stay in memory.
type SessionConfig struct {
	IdleTimeout   time.Duration `envconfig:"STOREFRONT_SESSION_IDLE_TIMEOUT" default:"30m"`
	SweepInterval time.Duration `envconfig:"STOREFRONT_SESSION_SWEEP_INTERVAL" default:"1m"`
}
