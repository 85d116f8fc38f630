package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "tourigo"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App     AppConfig
	Cart    CartConfig
	Wizard  WizardConfig
	Redis   RedisConfig
	Uploads UploadsConfig
	TourAPI TourAPIConfig
}

// Load reads configuration from the environment, honoring a local .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TOURIGO_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"TOURIGO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TOURIGO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CartConfig struct {
	TTLMinutes int    `envconfig:"TOURIGO_CART_TTL_MINUTES" default:"7200"`
	KeyPrefix  string `envconfig:"TOURIGO_CART_KEY_PREFIX" default:"cart"`
}

// TTL returns the cart inactivity window.
func (c CartConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

type WizardConfig struct {
	TotalSteps int `envconfig:"TOURIGO_WIZARD_TOTAL_STEPS" default:"6"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TOURIGO_REDIS_URL"`
	Address      string        `envconfig:"TOURIGO_REDIS_ADDR"`
	Password     string        `envconfig:"TOURIGO_REDIS_PASSWORD"`
	DB           int           `envconfig:"TOURIGO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TOURIGO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TOURIGO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TOURIGO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TOURIGO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TOURIGO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type UploadsConfig struct {
	BaseURL     string        `envconfig:"TOURIGO_UPLOADS_BASE_URL" required:"true"`
	APIKey      string        `envconfig:"TOURIGO_UPLOADS_API_KEY"`
	Timeout     time.Duration `envconfig:"TOURIGO_UPLOADS_TIMEOUT" default:"30s"`
	MaxUploadMB int           `envconfig:"TOURIGO_MAX_UPLOAD_MB" default:"20"`
}

type TourAPIConfig struct {
	BaseURL string        `envconfig:"TOURIGO_TOUR_API_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"TOURIGO_TOUR_API_KEY"`
	Timeout time.Duration `envconfig:"TOURIGO_TOUR_API_TIMEOUT" default:"15s"`
}
