package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"labconsole/internal/adapters/out/postgres"
	"labconsole/internal/pkg/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	OrderSourceAPI      = "api"
	OrderSourcePostgres = "postgres"

	HistoryStoreMemory = "memory"
	HistoryStoreRedis  = "redis"
)

type Config struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`

	LabAPIBaseURL string        `mapstructure:"LAB_API_BASE_URL"`
	LabAPITimeout time.Duration `mapstructure:"LAB_API_TIMEOUT"`

	// OrderSource selects where orders, results and history are read and
	// written. Report delivery always goes through the lab API.
	OrderSource string `mapstructure:"ORDER_SOURCE"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DBSslMode   string `mapstructure:"DB_SSLMODE"`

	HistoryStore  string        `mapstructure:"HISTORY_STORE"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	HistoryTTL    time.Duration `mapstructure:"HISTORY_TTL"`

	WorkspaceIdleTTL       time.Duration `mapstructure:"WORKSPACE_IDLE_TTL"`
	WorkspaceSweepSchedule string        `mapstructure:"WORKSPACE_SWEEP_SCHEDULE"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var configDefaults = map[string]any{
	"HTTP_PORT":                "8080",
	"LAB_API_BASE_URL":         "http://localhost:5000",
	"LAB_API_TIMEOUT":          "30s",
	"ORDER_SOURCE":             OrderSourceAPI,
	"DB_HOST":                  "localhost",
	"DB_PORT":                  "5432",
	"DB_USER":                  "postgres",
	"DB_PASSWORD":              "",
	"DB_NAME":                  "labconsole",
	"DB_SSLMODE":               "disable",
	"HISTORY_STORE":            HistoryStoreMemory,
	"REDIS_ADDR":               "localhost:6379",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"HISTORY_TTL":              "12h",
	"WORKSPACE_IDLE_TTL":       "2h",
	"WORKSPACE_SWEEP_SCHEDULE": "@every 1m",
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               logging.FormatJSON,
}

// LoadConfig reads the configuration from the environment. Variables found
// in envFile are loaded first without overriding the real environment; a
// missing file is not an error.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
		// Bind env vars explicitly so Unmarshal picks them up
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.OrderSource = strings.ToLower(strings.TrimSpace(cfg.OrderSource))
	cfg.HistoryStore = strings.ToLower(strings.TrimSpace(cfg.HistoryStore))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errList []error

	if c.HTTPPort == "" {
		errList = append(errList, errors.New("HTTP_PORT is required"))
	}
	if c.LabAPIBaseURL == "" {
		errList = append(errList, errors.New("LAB_API_BASE_URL is required"))
	}
	if c.LabAPITimeout <= 0 {
		errList = append(errList, fmt.Errorf("LAB_API_TIMEOUT must be positive, got %s", c.LabAPITimeout))
	}

	switch c.OrderSource {
	case OrderSourceAPI:
	case OrderSourcePostgres:
		if c.DBHost == "" || c.DBName == "" {
			errList = append(errList, errors.New("DB_HOST and DB_NAME are required when ORDER_SOURCE is postgres"))
		}
	default:
		errList = append(errList, fmt.Errorf("ORDER_SOURCE must be %q or %q, got %q", OrderSourceAPI, OrderSourcePostgres, c.OrderSource))
	}

	switch c.HistoryStore {
	case HistoryStoreMemory:
	case HistoryStoreRedis:
		if c.RedisAddr == "" {
			errList = append(errList, errors.New("REDIS_ADDR is required when HISTORY_STORE is redis"))
		}
	default:
		errList = append(errList, fmt.Errorf("HISTORY_STORE must be %q or %q, got %q", HistoryStoreMemory, HistoryStoreRedis, c.HistoryStore))
	}

	if c.HistoryTTL <= 0 {
		errList = append(errList, fmt.Errorf("HISTORY_TTL must be positive, got %s", c.HistoryTTL))
	}
	if c.WorkspaceIdleTTL <= 0 {
		errList = append(errList, fmt.Errorf("WORKSPACE_IDLE_TTL must be positive, got %s", c.WorkspaceIdleTTL))
	}

	return errors.Join(errList...)
}

func (c Config) DBSettings() postgres.Settings {
	return postgres.Settings{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSslMode,
	}
}
