// Package config loads ecoimpact configuration from defaults, YAML files,
// .env files and ECOIMPACT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables recognised by the loader.
const (
	EnvHome          = "ECOIMPACT_HOME"
	EnvProjectDir    = "ECOIMPACT_PROJECT_DIR"
	EnvLogLevel      = "ECOIMPACT_LOG_LEVEL"
	EnvLogFormat     = "ECOIMPACT_LOG_FORMAT"
	EnvLogFile       = "ECOIMPACT_LOG_FILE"
	EnvOutputFormat  = "ECOIMPACT_OUTPUT_FORMAT"
	EnvReferenceFile = "ECOIMPACT_REFERENCE_FILE"
	EnvStoreDriver   = "ECOIMPACT_STORE_DRIVER"
	EnvStoreDSN      = "ECOIMPACT_STORE_DSN"
	EnvServerAddr    = "ECOIMPACT_ADDR"
	EnvBatchSize     = "ECOIMPACT_BATCH_SIZE"
	EnvConcurrency   = "ECOIMPACT_CONCURRENCY"
)

// Defaults.
const (
	DefaultOutputFormat = "table"
	DefaultPrecision    = 1
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	DefaultStoreDriver  = StoreDriverMemory
	DefaultServerAddr   = ":8080"
	DefaultBatchSize    = 100
	DefaultConcurrency  = 4
	DefaultTimeoutSecs  = 15

	configDirName  = ".ecoimpact"
	configFileName = "config.yaml"
	outputTypeFile = "file"
)

// Store drivers.
const (
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

// Config is the complete ecoimpact configuration.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
	Reference ReferenceConfig `yaml:"reference"`
	Store     StoreConfig     `yaml:"store"`
	Server    ServerConfig    `yaml:"server"`
	Estimator EstimatorConfig `yaml:"estimator"`

	path string
}

// OutputConfig controls CLI output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// ReferenceConfig points at a replacement reference table document.
// An empty File means the embedded tables.
type ReferenceConfig struct {
	File string `yaml:"file,omitempty"`
}

// StoreConfig selects the product store.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn,omitempty"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr                string `yaml:"addr"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// EstimatorConfig tunes batch estimation.
type EstimatorConfig struct {
	BatchSize   int `yaml:"batch_size"`
	Concurrency int `yaml:"concurrency"`
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
			Precision:     DefaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Store: StoreConfig{
			Driver: DefaultStoreDriver,
		},
		Server: ServerConfig{
			Addr:                DefaultServerAddr,
			ReadTimeoutSeconds:  DefaultTimeoutSecs,
			WriteTimeoutSeconds: DefaultTimeoutSecs,
		},
		Estimator: EstimatorConfig{
			BatchSize:   DefaultBatchSize,
			Concurrency: DefaultConcurrency,
		},
		path: filepath.Join(ConfigDir(), configFileName),
	}
}

// New loads the global configuration without a project overlay.
func New() *Config {
	return NewWithProjectDir("")
}

// ConfigDir returns $ECOIMPACT_HOME or ~/.ecoimpact.
func ConfigDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return configDirName
	}
	return filepath.Join(userHome, configDirName)
}

// Path returns the file this config was loaded from or will be saved to.
func (c *Config) Path() string {
	return c.path
}

// Load reads path and overlays its values onto c.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	c.path = path
	return nil
}

// Save writes c as YAML to its path, creating the directory if needed.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no file path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.path, err)
	}
	return nil
}

// ApplyEnv loads a .env file from the working directory, if present, and
// applies ECOIMPACT_* overrides. Variables already set in the environment
// win over the .env file. Malformed integers are logged and skipped.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	setString := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	setInt := func(env string, dst *int) {
		v := os.Getenv(env)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			GetLogger().Warn().
				Str("component", "config").
				Str("env", env).
				Str("value", v).
				Int("using", *dst).
				Msg("ignoring malformed integer environment variable")
			return
		}
		*dst = n
	}

	setString(EnvLogLevel, &c.Logging.Level)
	setString(EnvLogFormat, &c.Logging.Format)
	setString(EnvLogFile, &c.Logging.File)
	setString(EnvOutputFormat, &c.Output.DefaultFormat)
	setString(EnvReferenceFile, &c.Reference.File)
	setString(EnvStoreDriver, &c.Store.Driver)
	setString(EnvStoreDSN, &c.Store.DSN)
	setString(EnvServerAddr, &c.Server.Addr)
	setInt(EnvBatchSize, &c.Estimator.BatchSize)
	setInt(EnvConcurrency, &c.Estimator.Concurrency)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error

	switch c.Output.DefaultFormat {
	case "table", "json":
	default:
		errs = append(errs, fmt.Errorf("output.default_format must be table or json, got %q", c.Output.DefaultFormat))
	}
	if c.Output.Precision < 0 || c.Output.Precision > 6 {
		errs = append(errs, fmt.Errorf("output.precision must be between 0 and 6, got %d", c.Output.Precision))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json, console or text, got %q", c.Logging.Format))
	}

	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverSQLite, StoreDriverPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be memory, sqlite or postgres, got %q", c.Store.Driver))
	}

	if c.Estimator.BatchSize < 1 || c.Estimator.BatchSize > 1000 {
		errs = append(errs, fmt.Errorf("estimator.batch_size must be between 1 and 1000, got %d", c.Estimator.BatchSize))
	}
	if c.Estimator.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("estimator.concurrency must be positive, got %d", c.Estimator.Concurrency))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}

	return errors.Join(errs...)
}

// EnsureLogDir creates the directory of the configured log file.
func EnsureLogDir() error {
	cfg := GetGlobalConfig()
	if cfg.Logging.File == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(cfg.Logging.File), 0o750)
}

//nolint:gochecknoglobals // Process-wide configuration, loaded once per CLI invocation.
var (
	globalConfig   *Config
	globalConfigMu sync.Mutex
)

// GetGlobalConfig returns the process-wide config, loading it on first use.
func GetGlobalConfig() *Config {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		globalConfig = NewWithProjectDir(GetResolvedProjectDir())
	}
	return globalConfig
}

// SetGlobalConfig replaces the process-wide config.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalConfigForTest drops the cached global config.
func ResetGlobalConfigForTest() {
	SetGlobalConfig(nil)
}

// GetDefaultOutputFormat returns the configured CLI output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}
