// Package config provides configuration loading and management for the audit server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/forgeo/crm-audit-server/internal/telemetry"
)

const (
	// DefaultCRMBaseURL is the CRM API root used when crm.baseURL is not set
	DefaultCRMBaseURL = "https://api.hubapi.com"

	// DefaultPageSize is the number of objects requested per CRM page
	DefaultPageSize = 100

	// MaxPageSize is the largest page the CRM API accepts
	MaxPageSize = 100

	// DefaultCRMTimeout is the per-request timeout against the CRM API
	DefaultCRMTimeout = 10 * time.Second

	// DefaultSchedulerInterval is the pause between two auto-sync sweeps
	DefaultSchedulerInterval = 6 * time.Hour

	// DefaultSchedulerStartupDelay is the wait before the first auto-sync sweep
	DefaultSchedulerStartupDelay = 5 * time.Minute

	// DefaultRetryMaxAttempts is how many times a scheduled sync is attempted
	DefaultRetryMaxAttempts = 3

	// DefaultRetryInitialInterval is the first backoff pause of a scheduled sync retry
	DefaultRetryInitialInterval = 30 * time.Second

	// DefaultLockTTL bounds how long a redis run lease survives a crashed holder
	DefaultLockTTL = 2 * time.Hour

	// PasswordEnvVar is the environment variable consulted for the database password
	PasswordEnvVar = "CRM_AUDIT_DATABASE_PASSWORD"

	// EnvPrefix is the prefix of environment overrides read through viper
	EnvPrefix = "CRM_AUDIT"
)

const (
	// LockBackendPostgres uses PostgreSQL advisory locks
	LockBackendPostgres = "postgres"

	// LockBackendRedis uses redis SET NX leases
	LockBackendRedis = "redis"

	// LockBackendFile uses lock files in a local directory
	LockBackendFile = "file"

	// LockBackendMemory keeps leases inside the process
	LockBackendMemory = "memory"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// EvalSymlinks also cleans the path
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	CRM       CRMConfig         `yaml:"crm"`
	Database  *DatabaseConfig   `yaml:"database,omitempty"`
	Scheduler *SchedulerConfig  `yaml:"scheduler,omitempty"`
	RunLock   *RunLockConfig    `yaml:"runLock,omitempty"`
	Events    *EventsConfig     `yaml:"events,omitempty"`
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// CRMConfig defines how the CRM REST API is reached
type CRMConfig struct {
	// BaseURL is the API root, without the /crm/v3 path
	BaseURL string `yaml:"baseURL,omitempty"`

	// PageSize is the limit sent with every page request (1..100)
	PageSize int `yaml:"pageSize,omitempty"`

	// Timeout is the per-request timeout (e.g., "10s")
	Timeout string `yaml:"timeout,omitempty"`
}

// GetBaseURL returns the base URL without a trailing slash
func (c *CRMConfig) GetBaseURL() string {
	if c.BaseURL == "" {
		return DefaultCRMBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

// GetPageSize returns the page size, using DefaultPageSize if not specified
func (c *CRMConfig) GetPageSize() int {
	if c.PageSize == 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// GetTimeout returns the request timeout. Validation guarantees the value parses.
func (c *CRMConfig) GetTimeout() time.Duration {
	return durationOr(c.Timeout, DefaultCRMTimeout)
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password.
	// The file should contain only the password with optional trailing whitespace.
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of connections in the pool
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MaxIdleConns is the minimum number of idle connections kept in the pool
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from the CRM_AUDIT_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(PasswordEnvVar); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s environment variable", PasswordEnvVar,
	)
}

// GetConnectionString builds a PostgreSQL connection URL.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)

	return connString, nil
}

// SchedulerConfig defines the automatic synchronization sweep
type SchedulerConfig struct {
	// Enabled turns the background sweep on
	Enabled bool `yaml:"enabled"`

	// Interval is the pause between sweeps (e.g., "6h")
	Interval string `yaml:"interval,omitempty"`

	// StartupDelay is the wait before the first sweep (e.g., "5m")
	StartupDelay string `yaml:"startupDelay,omitempty"`

	// MaxConcurrentUsers bounds how many users are synced at the same time
	MaxConcurrentUsers int `yaml:"maxConcurrentUsers,omitempty"`

	Retry *RetryConfig `yaml:"retry,omitempty"`
}

// RetryConfig defines the backoff applied to a failed scheduled sync
type RetryConfig struct {
	MaxAttempts     uint   `yaml:"maxAttempts,omitempty"`
	InitialInterval string `yaml:"initialInterval,omitempty"`
}

// GetInterval returns the sweep interval
func (s *SchedulerConfig) GetInterval() time.Duration {
	if s == nil {
		return DefaultSchedulerInterval
	}
	return durationOr(s.Interval, DefaultSchedulerInterval)
}

// GetStartupDelay returns the delay before the first sweep
func (s *SchedulerConfig) GetStartupDelay() time.Duration {
	if s == nil {
		return DefaultSchedulerStartupDelay
	}
	return durationOr(s.StartupDelay, DefaultSchedulerStartupDelay)
}

// GetMaxConcurrentUsers returns the per-sweep concurrency, at least 1
func (s *SchedulerConfig) GetMaxConcurrentUsers() int {
	if s == nil || s.MaxConcurrentUsers < 1 {
		return 1
	}
	return s.MaxConcurrentUsers
}

// GetMaxAttempts returns the number of attempts for one scheduled sync
func (s *SchedulerConfig) GetMaxAttempts() uint {
	if s == nil || s.Retry == nil || s.Retry.MaxAttempts == 0 {
		return DefaultRetryMaxAttempts
	}
	return s.Retry.MaxAttempts
}

// GetInitialInterval returns the first retry pause
func (s *SchedulerConfig) GetInitialInterval() time.Duration {
	if s == nil || s.Retry == nil {
		return DefaultRetryInitialInterval
	}
	return durationOr(s.Retry.InitialInterval, DefaultRetryInitialInterval)
}

// RunLockConfig selects the per-user run guard backend
type RunLockConfig struct {
	// Backend is one of postgres, redis, file or memory
	Backend string `yaml:"backend,omitempty"`

	Redis *RedisConfig `yaml:"redis,omitempty"`

	// Dir holds the lock files of the file backend
	Dir string `yaml:"dir,omitempty"`

	// TTL is the lease expiry of the redis backend
	TTL string `yaml:"ttl,omitempty"`
}

// RedisConfig defines the redis connection used by the redis run guard
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// GetLockBackend returns the run guard backend. It defaults to postgres when a database
// is configured and to memory otherwise.
func (c *Config) GetLockBackend() string {
	if c.RunLock != nil && c.RunLock.Backend != "" {
		return c.RunLock.Backend
	}
	if c.Database != nil {
		return LockBackendPostgres
	}
	return LockBackendMemory
}

// GetTTL returns the redis lease expiry
func (r *RunLockConfig) GetTTL() time.Duration {
	if r == nil {
		return DefaultLockTTL
	}
	return durationOr(r.TTL, DefaultLockTTL)
}

// EventsConfig defines where terminal run outcomes are published
type EventsConfig struct {
	MQTT *MQTTConfig `yaml:"mqtt,omitempty"`
}

// MQTTConfig defines the MQTT broker connection
type MQTTConfig struct {
	// Broker is the broker URL (e.g., "tcp://localhost:1883")
	Broker string `yaml:"broker"`

	ClientID string `yaml:"clientID,omitempty"`

	// TopicPrefix is prepended to every topic, defaults to "crm-audit"
	TopicPrefix string `yaml:"topicPrefix,omitempty"`

	QoS byte `yaml:"qos,omitempty"`
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	var errs []error

	if err := c.CRM.validate(); err != nil {
		errs = append(errs, fmt.Errorf("crm: %w", err))
	}
	if err := c.Scheduler.validate(); err != nil {
		errs = append(errs, fmt.Errorf("scheduler: %w", err))
	}
	if err := c.validateRunLock(); err != nil {
		errs = append(errs, fmt.Errorf("runLock: %w", err))
	}
	if c.Events != nil && c.Events.MQTT != nil {
		if c.Events.MQTT.Broker == "" {
			errs = append(errs, fmt.Errorf("events: mqtt.broker is required"))
		}
		if c.Events.MQTT.QoS > 2 {
			errs = append(errs, fmt.Errorf("events: mqtt.qos must be 0, 1 or 2, got %d", c.Events.MQTT.QoS))
		}
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}

func (c *CRMConfig) validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("baseURL must be an absolute URL, got %q", c.BaseURL)
		}
	}
	if c.PageSize < 0 || c.PageSize > MaxPageSize {
		return fmt.Errorf("pageSize must be between 1 and %d, got %d", MaxPageSize, c.PageSize)
	}
	return validateDuration("timeout", c.Timeout)
}

func (s *SchedulerConfig) validate() error {
	if s == nil {
		return nil
	}
	if err := validateDuration("interval", s.Interval); err != nil {
		return err
	}
	if err := validateDuration("startupDelay", s.StartupDelay); err != nil {
		return err
	}
	if s.MaxConcurrentUsers < 0 {
		return fmt.Errorf("maxConcurrentUsers must not be negative")
	}
	if s.Retry != nil {
		return validateDuration("retry.initialInterval", s.Retry.InitialInterval)
	}
	return nil
}

func (c *Config) validateRunLock() error {
	switch backend := c.GetLockBackend(); backend {
	case LockBackendPostgres:
		if c.Database == nil {
			return fmt.Errorf("backend %s requires a database configuration", backend)
		}
	case LockBackendRedis:
		if c.RunLock.Redis == nil || c.RunLock.Redis.Addr == "" {
			return fmt.Errorf("backend %s requires redis.addr", backend)
		}
	case LockBackendFile:
		if c.RunLock.Dir == "" {
			return fmt.Errorf("backend %s requires dir", backend)
		}
	case LockBackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}
	if c.RunLock != nil {
		return validateDuration("ttl", c.RunLock.TTL)
	}
	return nil
}

func validateDuration(name, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s must be a valid duration (e.g., '30m', '1h'): %w", name, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", name, value)
	}
	return nil
}

func durationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
