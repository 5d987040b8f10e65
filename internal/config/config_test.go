package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeo/crm-audit-server/internal/telemetry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		yamlContent string
		wantConfig  *Config
		wantErr     string
	}{
		{
			name: "full_config",
			yamlContent: `crm:
  baseURL: https://crm.example.com/
  pageSize: 50
  timeout: 5s
database:
  host: localhost
  port: 5432
  user: audit
  database: crm_audit
  sslMode: disable
scheduler:
  enabled: true
  interval: 2h
  startupDelay: 1m
  maxConcurrentUsers: 4
  retry:
    maxAttempts: 5
    initialInterval: 10s
runLock:
  backend: redis
  redis:
    addr: localhost:6379
  ttl: 30m
events:
  mqtt:
    broker: tcp://localhost:1883
    qos: 1
telemetry:
  enabled: true
  metrics:
    enabled: true
    exporter: prometheus`,
			wantConfig: &Config{
				CRM: CRMConfig{BaseURL: "https://crm.example.com/", PageSize: 50, Timeout: "5s"},
				Database: &DatabaseConfig{
					Host: "localhost", Port: 5432, User: "audit", Database: "crm_audit", SSLMode: "disable",
				},
				Scheduler: &SchedulerConfig{
					Enabled:            true,
					Interval:           "2h",
					StartupDelay:       "1m",
					MaxConcurrentUsers: 4,
					Retry:              &RetryConfig{MaxAttempts: 5, InitialInterval: "10s"},
				},
				RunLock: &RunLockConfig{
					Backend: LockBackendRedis,
					Redis:   &RedisConfig{Addr: "localhost:6379"},
					TTL:     "30m",
				},
				Events: &EventsConfig{MQTT: &MQTTConfig{Broker: "tcp://localhost:1883", QoS: 1}},
				Telemetry: &telemetry.Config{
					Enabled: true,
					Metrics: &telemetry.MetricsConfig{Enabled: true, Exporter: telemetry.ExporterPrometheus},
				},
			},
		},
		{
			name:        "empty_config_is_valid",
			yamlContent: `crm: {}`,
			wantConfig:  &Config{},
		},
		{
			name: "page_size_too_large",
			yamlContent: `crm:
  pageSize: 101`,
			wantErr: "pageSize must be between 1 and 100",
		},
		{
			name: "relative_base_url",
			yamlContent: `crm:
  baseURL: api.hubapi.com`,
			wantErr: "baseURL must be an absolute URL",
		},
		{
			name: "invalid_timeout",
			yamlContent: `crm:
  timeout: soon`,
			wantErr: "timeout must be a valid duration",
		},
		{
			name: "negative_interval",
			yamlContent: `scheduler:
  enabled: true
  interval: -1h`,
			wantErr: "interval must be positive",
		},
		{
			name: "postgres_lock_without_database",
			yamlContent: `runLock:
  backend: postgres`,
			wantErr: "requires a database configuration",
		},
		{
			name: "file_lock_without_dir",
			yamlContent: `runLock:
  backend: file`,
			wantErr: "requires dir",
		},
		{
			name: "unknown_lock_backend",
			yamlContent: `runLock:
  backend: zookeeper`,
			wantErr: `unknown backend "zookeeper"`,
		},
		{
			name: "mqtt_without_broker",
			yamlContent: `events:
  mqtt:
    clientID: audit`,
			wantErr: "mqtt.broker is required",
		},
		{
			name:        "malformed_yaml",
			yamlContent: "crm: [",
			wantErr:     "failed to parse YAML config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, tt.yamlContent)
			cfg, err := LoadConfig(WithConfigPath(path))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, cfg)
		})
	}
}

func TestLoadConfig_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")

	_, err = LoadConfig(WithConfigPath(""))
	require.Error(t, err)

	_, err = LoadConfig(WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to evaluate symlinks")
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.Equal(t, DefaultCRMBaseURL, cfg.CRM.GetBaseURL())
	assert.Equal(t, DefaultPageSize, cfg.CRM.GetPageSize())
	assert.Equal(t, DefaultCRMTimeout, cfg.CRM.GetTimeout())
	assert.Equal(t, LockBackendMemory, cfg.GetLockBackend())

	var sched *SchedulerConfig
	assert.Equal(t, DefaultSchedulerInterval, sched.GetInterval())
	assert.Equal(t, DefaultSchedulerStartupDelay, sched.GetStartupDelay())
	assert.Equal(t, 1, sched.GetMaxConcurrentUsers())
	assert.Equal(t, uint(DefaultRetryMaxAttempts), sched.GetMaxAttempts())
	assert.Equal(t, DefaultRetryInitialInterval, sched.GetInitialInterval())

	var lock *RunLockConfig
	assert.Equal(t, DefaultLockTTL, lock.GetTTL())

	cfg.Database = &DatabaseConfig{}
	assert.Equal(t, LockBackendPostgres, cfg.GetLockBackend())

	cfg.CRM.BaseURL = "http://localhost:8080/"
	assert.Equal(t, "http://localhost:8080", cfg.CRM.GetBaseURL())

	sched = &SchedulerConfig{Interval: "90m", Retry: &RetryConfig{InitialInterval: "1s"}}
	assert.Equal(t, 90*time.Minute, sched.GetInterval())
	assert.Equal(t, time.Second, sched.GetInitialInterval())
}

func TestDatabaseConfig_GetPassword(t *testing.T) {
	// Not parallel: mutates the process environment
	t.Run("from_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "password")
		require.NoError(t, os.WriteFile(path, []byte("s3cret\n"), 0600))
		t.Setenv(PasswordEnvVar, "ignored")

		cfg := &DatabaseConfig{PasswordFile: path}
		password, err := cfg.GetPassword()
		require.NoError(t, err)
		assert.Equal(t, "s3cret", password)
	})

	t.Run("from_env", func(t *testing.T) {
		t.Setenv(PasswordEnvVar, "from-env")

		password, err := (&DatabaseConfig{}).GetPassword()
		require.NoError(t, err)
		assert.Equal(t, "from-env", password)
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv(PasswordEnvVar, "")

		_, err := (&DatabaseConfig{}).GetPassword()
		require.Error(t, err)
		assert.Contains(t, err.Error(), PasswordEnvVar)
	})

	t.Run("unreadable_file", func(t *testing.T) {
		cfg := &DatabaseConfig{PasswordFile: filepath.Join(t.TempDir(), "nope")}
		_, err := cfg.GetPassword()
		require.Error(t, err)
	})
}

func TestDatabaseConfig_GetConnectionString(t *testing.T) {
	t.Setenv(PasswordEnvVar, "p@ss/word")

	cfg := &DatabaseConfig{Host: "db", Port: 5432, User: "audit", Database: "crm"}
	connString, err := cfg.GetConnectionString()
	require.NoError(t, err)
	assert.Equal(t, "postgres://audit:p%40ss%2Fword@db:5432/crm?sslmode=require", connString)

	cfg.SSLMode = "disable"
	connString, err = cfg.GetConnectionString()
	require.NoError(t, err)
	assert.Contains(t, connString, "sslmode=disable")
}
