package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/mantonx/lineup/internal/logger"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when LINEUP_CONFIG_PATH is not set
const DefaultConfigPath = "./lineup.yaml"

// Config holds the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server"`
	Database  DatabaseConfig  `yaml:"database" json:"database"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Security  SecurityConfig  `yaml:"security" json:"security"`
	Schedule  ScheduleConfig  `yaml:"schedule" json:"schedule"`
	Search    SearchConfig    `yaml:"search" json:"search"`
	Billing   BillingConfig   `yaml:"billing" json:"billing"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`
	Modules   ModulesConfig   `yaml:"modules" json:"modules"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host           string        `yaml:"host" json:"host" env:"LINEUP_HOST" default:"0.0.0.0"`
	Port           int           `yaml:"port" json:"port" env:"LINEUP_PORT" default:"8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" json:"read_timeout" env:"LINEUP_READ_TIMEOUT" default:"30s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" json:"write_timeout" env:"LINEUP_WRITE_TIMEOUT" default:"30s"`
	MaxHeaderBytes int           `yaml:"max_header_bytes" json:"max_header_bytes" env:"LINEUP_MAX_HEADER_BYTES" default:"1048576"`
	EnableCORS     bool          `yaml:"enable_cors" json:"enable_cors" env:"LINEUP_ENABLE_CORS"`
	TrustedProxies []string      `yaml:"trusted_proxies" json:"trusted_proxies" env:"LINEUP_TRUSTED_PROXIES"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Type            string        `yaml:"type" json:"type" env:"DATABASE_TYPE" default:"sqlite"`
	URL             string        `yaml:"url" json:"url" env:"DATABASE_URL"`
	Host            string        `yaml:"host" json:"host" env:"POSTGRES_HOST" default:"localhost"`
	Port            int           `yaml:"port" json:"port" env:"POSTGRES_PORT" default:"5432"`
	Username        string        `yaml:"username" json:"username" env:"POSTGRES_USER" default:"lineup"`
	Password        string        `yaml:"password" json:"password" env:"POSTGRES_PASSWORD"`
	Database        string        `yaml:"database" json:"database" env:"POSTGRES_DB" default:"lineup"`
	DataDir         string        `yaml:"data_dir" json:"data_dir" env:"LINEUP_DATA_DIR" default:"./data"`
	DatabasePath    string        `yaml:"database_path" json:"database_path" env:"LINEUP_DATABASE_PATH"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns" env:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" default:"2h"`
	LogQueries      bool          `yaml:"log_queries" json:"log_queries" env:"DB_LOG_QUERIES"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" env:"LOG_LEVEL" default:"info"`
	Format string `yaml:"format" json:"format" env:"LOG_FORMAT" default:"text"`
}

// SecurityConfig holds token verification and CORS settings
type SecurityConfig struct {
	JWTSecret      string        `yaml:"jwt_secret" json:"-" env:"LINEUP_JWT_SECRET"`
	JWTIssuer      string        `yaml:"jwt_issuer" json:"jwt_issuer" env:"LINEUP_JWT_ISSUER" default:"lineup"`
	TokenTTL       time.Duration `yaml:"token_ttl" json:"token_ttl" env:"LINEUP_TOKEN_TTL" default:"24h"`
	AllowedOrigins []string      `yaml:"allowed_origins" json:"allowed_origins" env:"LINEUP_ALLOWED_ORIGINS"`
}

// ScheduleConfig controls live schedule construction
type ScheduleConfig struct {
	AllowOverlap bool `yaml:"allow_overlap" json:"allow_overlap" env:"LINEUP_SCHEDULE_ALLOW_OVERLAP"`
}

// SearchConfig controls the search aggregator and its optional cache
type SearchConfig struct {
	RedisAddr  string        `yaml:"redis_addr" json:"redis_addr" env:"LINEUP_REDIS_ADDR"`
	CacheTTL   time.Duration `yaml:"cache_ttl" json:"cache_ttl" env:"LINEUP_SEARCH_CACHE_TTL" default:"30s"`
	MaxResults int           `yaml:"max_results" json:"max_results" env:"LINEUP_SEARCH_MAX_RESULTS" default:"50"`
}

// BillingConfig holds checkout provider settings
type BillingConfig struct {
	StripeSecretKey string `yaml:"stripe_secret_key" json:"-" env:"STRIPE_SECRET_KEY"`
	SuccessURL      string `yaml:"success_url" json:"success_url" env:"LINEUP_CHECKOUT_SUCCESS_URL"`
	CancelURL       string `yaml:"cancel_url" json:"cancel_url" env:"LINEUP_CHECKOUT_CANCEL_URL"`
}

// TelemetryConfig holds error reporting settings
type TelemetryConfig struct {
	SentryDSN   string `yaml:"sentry_dsn" json:"-" env:"SENTRY_DSN"`
	Environment string `yaml:"environment" json:"environment" env:"LINEUP_ENV" default:"development"`
	Release     string `yaml:"release" json:"release" env:"LINEUP_RELEASE"`
}

// ModulesConfig selects which optional modules are loaded
type ModulesConfig struct {
	Disabled []string `yaml:"disabled" json:"disabled" env:"LINEUP_DISABLED_MODULES"`
}

// ConfigManager manages application configuration
type ConfigManager struct {
	config     *Config
	configPath string
	mu         sync.RWMutex
	watchers   []ConfigWatcher
}

// ConfigWatcher is called with the previous and new configuration after a reload
type ConfigWatcher func(oldConfig, newConfig *Config)

var (
	globalConfigManager *ConfigManager
	configOnce          sync.Once
)

// GetConfigManager returns the global configuration manager
func GetConfigManager() *ConfigManager {
	configOnce.Do(func() {
		globalConfigManager = NewConfigManager()
	})
	return globalConfigManager
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config:   DefaultConfig(),
		watchers: make([]ConfigWatcher, 0),
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20,
			EnableCORS:     true,
		},
		Database: DatabaseConfig{
			Type:            "sqlite",
			Host:            "localhost",
			Port:            5432,
			Username:        "lineup",
			Database:        "lineup",
			DataDir:         "./data",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 2 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Security: SecurityConfig{
			JWTIssuer: "lineup",
			TokenTTL:  24 * time.Hour,
		},
		Search: SearchConfig{
			CacheTTL:   30 * time.Second,
			MaxResults: 50,
		},
		Telemetry: TelemetryConfig{
			Environment: "development",
		},
	}
}

// LoadConfig loads configuration from .env, the config file and environment variables
func (cm *ConfigManager) LoadConfig(configPath string) error {
	cm.mu.Lock()

	oldConfig := *cm.config
	cm.configPath = configPath

	// .env only fills variables that are not already set
	if fileExists(".env") {
		if err := godotenv.Load(); err != nil {
			cm.mu.Unlock()
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	newConfig := DefaultConfig()

	if configPath != "" && fileExists(configPath) {
		if err := cm.loadFromFile(configPath, newConfig); err != nil {
			cm.mu.Unlock()
			return fmt.Errorf("failed to load config from file: %w", err)
		}
		logger.Info("configuration loaded from file", "path", configPath)
	}

	if err := cm.loadFromEnv(newConfig); err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := cm.validateConfig(newConfig); err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cm.applyDerivedConfig(newConfig)
	cm.config = newConfig
	watchers := append([]ConfigWatcher(nil), cm.watchers...)
	cm.mu.Unlock()

	for _, watcher := range watchers {
		watcher(&oldConfig, newConfig)
	}
	return nil
}

// GetConfig returns a copy of the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	configCopy := *cm.config
	return &configCopy
}

// ConfigPath returns the path the configuration was last loaded from
func (cm *ConfigManager) ConfigPath() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.configPath
}

// AddWatcher adds a configuration change watcher
func (cm *ConfigManager) AddWatcher(watcher ConfigWatcher) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.watchers = append(cm.watchers, watcher)
}

func (cm *ConfigManager) loadFromFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	case ".json":
		return json.Unmarshal(data, config)
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
}

func (cm *ConfigManager) loadFromEnv(config *Config) error {
	return loadStructFromEnv(reflect.ValueOf(config).Elem())
}

func loadStructFromEnv(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := loadStructFromEnv(field); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		// The default tag only fills a field nothing else has set
		envValue := os.Getenv(envTag)
		if envValue == "" && field.IsZero() {
			envValue = fieldType.Tag.Get("default")
		}
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %s from %s: %w", fieldType.Name, envTag, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(duration))
		} else {
			intVal, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(intVal)
		}
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolVal)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %v", field.Type())
		}
		values := strings.Split(value, ",")
		for i, v := range values {
			values[i] = strings.TrimSpace(v)
		}
		field.Set(reflect.ValueOf(values))
	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

func (cm *ConfigManager) validateConfig(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Database.Type != "sqlite" && config.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database type: %s", config.Database.Type)
	}

	if config.Search.MaxResults < 0 {
		return fmt.Errorf("invalid search max results: %d", config.Search.MaxResults)
	}

	if config.Security.TokenTTL < 0 {
		return fmt.Errorf("invalid token ttl: %s", config.Security.TokenTTL)
	}

	return nil
}

func (cm *ConfigManager) applyDerivedConfig(config *Config) {
	if config.Database.DatabasePath == "" && config.Database.Type == "sqlite" {
		config.Database.DatabasePath = filepath.Join(config.Database.DataDir, "lineup.db")
	}

	if config.Search.MaxResults == 0 {
		config.Search.MaxResults = 50
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Global convenience functions

// Get returns the current global configuration
func Get() *Config {
	return GetConfigManager().GetConfig()
}

// Load loads configuration from the specified path
func Load(configPath string) error {
	return GetConfigManager().LoadConfig(configPath)
}

// AddWatcher adds a global configuration watcher
func AddWatcher(watcher ConfigWatcher) {
	GetConfigManager().AddWatcher(watcher)
}

// PathFromEnv returns LINEUP_CONFIG_PATH or the default path
func PathFromEnv() string {
	if p := os.Getenv("LINEUP_CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultConfigPath
}
