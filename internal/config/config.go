package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/groupchat/chat-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the resolved application configuration
type Config struct {
	Environment string          `yaml:"environment"`
	Server      ServerConfig    `yaml:"server"`
	Database    DatabaseConfig  `yaml:"database"`
	Redis       RedisConfig     `yaml:"redis"`
	JWT         JWTConfig       `yaml:"jwt"`
	CORS        CORSConfig      `yaml:"cors"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig connection settings for mysql or postgres
type DatabaseConfig struct {
	Driver          string `yaml:"driver"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Name            string `yaml:"name"`
	SSLMode         string `yaml:"ssl_mode"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
	LogLevel        string `yaml:"log_level"`         // silent, error, warn, info
}

// RedisConfig redis settings; disabled means no cache and no rate limiting
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig token settings. Lifetimes are in minutes.
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"`
	RefreshIn int    `yaml:"refresh_in"`
}

// CORSConfig comma separated list of allowed origins
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// RateLimitConfig per-minute budgets: every route per client IP, and
// send_message per sender
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	SendsPerMinute    int  `yaml:"sends_per_minute"`
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// PathForEnv returns configs/config.<env>.yaml, defaulting env to local
func PathForEnv(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

// Load reads the yaml file at path, applies env overrides and defaults, and validates.
// A missing file is allowed; env and defaults then supply everything.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("config file %s not found, using env and defaults", path)
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Environment, "APP_ENV")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Server.Mode, "GIN_MODE")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")

	setBool(&cfg.Redis.Enabled, "REDIS_ENABLED")
	setString(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "local"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}

	db := &cfg.Database
	if db.Driver == "" {
		db.Driver = DriverMySQL
	}
	if db.Host == "" {
		db.Host = "localhost"
	}
	if db.Port == 0 {
		if db.Driver == DriverPostgres {
			db.Port = 5432
		} else {
			db.Port = 3306
		}
	}
	if db.SSLMode == "" {
		db.SSLMode = "disable"
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = 10
	}
	if db.MaxOpenConns == 0 {
		db.MaxOpenConns = 50
	}
	if db.ConnMaxLifetime == 0 {
		db.ConnMaxLifetime = 300
	}
	if db.LogLevel == "" {
		db.LogLevel = "warn"
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}

	// access token lifetime is one hour unless configured
	if cfg.JWT.ExpiresIn == 0 {
		cfg.JWT.ExpiresIn = 60
	}
	if cfg.JWT.RefreshIn == 0 {
		cfg.JWT.RefreshIn = 7 * 24 * 60
	}

	if cfg.CORS.AllowOrigins == "" {
		cfg.CORS.AllowOrigins = "http://localhost:3000"
	}
	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = 120
	}
	if cfg.RateLimit.SendsPerMinute == 0 {
		cfg.RateLimit.SendsPerMinute = 30
	}
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.Database.Driver != DriverMySQL && c.Database.Driver != DriverPostgres {
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverMySQL, DriverPostgres, c.Database.Driver)
	}
	if c.Database.Name == "" {
		return errors.New("database.name is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required (set JWT_SECRET)")
	}
	if !c.IsDevelopment() && len(c.JWT.Secret) < 32 {
		return errors.New("jwt.secret must be at least 32 characters outside development")
	}
	return nil
}

// IsDevelopment reports whether the app runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	switch c.Environment {
	case "local", "dev", "development":
		return true
	}
	return false
}

// GetDSN builds the driver-specific connection string
func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// AllowedOrigins splits the CORS origin list
func (c *CORSConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// LogResolved logs the effective configuration with secrets masked
func LogResolved(cfg *Config) {
	logger.GetLogger().Info().
		Str("environment", cfg.Environment).
		Int("server_port", cfg.Server.Port).
		Str("gin_mode", cfg.Server.Mode).
		Str("db_driver", cfg.Database.Driver).
		Str("db_host", cfg.Database.Host).
		Int("db_port", cfg.Database.Port).
		Str("db_name", cfg.Database.Name).
		Str("db_user", cfg.Database.User).
		Bool("redis_enabled", cfg.Redis.Enabled).
		Str("redis_addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)).
		Str("jwt_secret", mask(cfg.JWT.Secret)).
		Int("jwt_expires_in_min", cfg.JWT.ExpiresIn).
		Strs("cors_origins", cfg.CORS.AllowedOrigins()).
		Bool("rate_limit", cfg.RateLimit.Enabled).
		Int("sends_per_minute", cfg.RateLimit.SendsPerMinute).
		Msg("resolved config")
}

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		} else {
			logger.Warn("ignoring %s=%q: not an integer", key, v)
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		} else {
			logger.Warn("ignoring %s=%q: not a boolean", key, v)
		}
	}
}
