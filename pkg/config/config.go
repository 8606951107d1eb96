package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. WALLET_DATABASE_HOST.
const EnvPrefix = "WALLET"

// Config represents the wallet API server configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Auth          AuthConfig          `mapstructure:"auth"`
	KeyManagement KeyManagementConfig `mapstructure:"key_management"`
	Networks      NetworksConfig      `mapstructure:"networks"`
	Submission    SubmissionConfig    `mapstructure:"submission"`
	Confirmation  ConfirmationConfig  `mapstructure:"confirmation"`
	Portfolio     PortfolioConfig     `mapstructure:"portfolio"`
	Monitoring    MonitoringConfig    `mapstructure:"monitoring"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host" default:"0.0.0.0"`
	Port            int           `mapstructure:"port" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" default:"60s"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" default:"120s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"30s"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" default:"60s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host" default:"localhost" validate:"required"`
	Port     int    `mapstructure:"port" default:"5432" validate:"gt=0"`
	User     string `mapstructure:"user" default:"postgres"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database" default:"token_wallet" validate:"required"`
	SSLMode  string `mapstructure:"ssl_mode" default:"disable" validate:"oneof=disable require verify-ca verify-full"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level" default:"info"`
	Format     string `mapstructure:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path" default:"stdout"`
}

// AuthConfig contains session and PIN settings
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" default:"8760h"`
	TicketTTL time.Duration `mapstructure:"ticket_ttl" default:"2m" validate:"gt=0"`
	// PINAttemptsPerMinute limits PIN checks per identity. Zero disables the limiter.
	PINAttemptsPerMinute float64 `mapstructure:"pin_attempts_per_minute" default:"5" validate:"gte=0"`
	PINBurst             int     `mapstructure:"pin_burst" default:"5" validate:"gte=0"`
}

// KeyManagementConfig names where the custodial key master key comes from
type KeyManagementConfig struct {
	MasterKeyEnv string `mapstructure:"master_key_env" default:"WALLET_MASTER_KEY" validate:"required"`
}

// NetworksConfig contains chain access settings
type NetworksConfig struct {
	// RegistryPath overrides the embedded network registry when set.
	RegistryPath   string            `mapstructure:"registry_path"`
	RPCOverrides   map[string]string `mapstructure:"rpc_overrides"`
	RequestTimeout time.Duration     `mapstructure:"request_timeout" default:"30s"`
	EVM            EVMConfig         `mapstructure:"evm"`
	Retry          RetryConfig       `mapstructure:"retry"`
}

// EVMConfig contains transaction settings for EVM-family chains
type EVMConfig struct {
	GasLimit    uint64 `mapstructure:"gas_limit" default:"100000" validate:"gt=0"`
	MaxGasPrice string `mapstructure:"max_gas_price" default:"50000000000"`
}

// RetryConfig bounds retries of read-only chain calls
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" default:"3" validate:"gte=1"`
	BaseDelay   time.Duration `mapstructure:"base_delay" default:"500ms"`
	MaxDelay    time.Duration `mapstructure:"max_delay" default:"5s"`
}

// SubmissionConfig contains dispatch settings
type SubmissionConfig struct {
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout" default:"45s" validate:"gt=0"`
	// GasFeeDisplay is the advisory fee recorded with send transactions.
	GasFeeDisplay string `mapstructure:"gas_fee_display" default:"0.35"`
}

// ConfirmationConfig contains settings for the pending transaction poller
type ConfirmationConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	InitialTimeout time.Duration `mapstructure:"initial_timeout" default:"1m"`
	Interval       time.Duration `mapstructure:"interval" default:"30s"`
	BatchSize      int           `mapstructure:"batch_size" default:"100" validate:"gt=0"`
	MaxPendingAge  time.Duration `mapstructure:"max_pending_age" default:"24h"`
}

// PortfolioConfig contains settings for the snapshot job
type PortfolioConfig struct {
	SnapshotsEnabled bool          `mapstructure:"snapshots_enabled"`
	SnapshotInterval time.Duration `mapstructure:"snapshot_interval" default:"1h"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from file and environment variables.
// An empty path loads defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	// Booleans defaulting to true are set here; struct defaults cannot tell
	// an explicit false from an unset field.
	v.SetDefault("confirmation.enabled", true)
	v.SetDefault("portfolio.snapshots_enabled", true)
	v.SetDefault("monitoring.enabled", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := defaults.Set(&config); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// bindEnv registers keys that may only come from the environment. AutomaticEnv
// alone does not surface keys unknown to viper during Unmarshal.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.database",
		"auth.jwt_secret",
		"logging.level",
		"server.port",
	} {
		_ = v.BindEnv(key)
	}
}

func validate(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}
	if config.Confirmation.Enabled && config.Confirmation.Interval <= 0 {
		return fmt.Errorf("confirmation.interval must be positive")
	}
	if config.Portfolio.SnapshotsEnabled && config.Portfolio.SnapshotInterval <= 0 {
		return fmt.Errorf("portfolio.snapshot_interval must be positive")
	}
	return nil
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
