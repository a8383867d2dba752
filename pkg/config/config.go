package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultConfigDir  = ".filesize"
	DefaultConfigFile = "config.yaml"

	// DefaultOutputFormat is used when neither --output nor the output key is set
	DefaultOutputFormat = "text"
)

// Config holds the CLI configuration
type Config struct {
	OutputFormat     string
	LogLevel         string
	TelemetryEnabled *bool // Pointer to distinguish between unset (nil) and explicitly set (true/false)
}

// ValidUserFacingConfigKeys lists config keys that users can get and set
var ValidUserFacingConfigKeys = map[string]bool{
	"output":    true,
	"loglevel":  true,
	"telemetry": true,
}

// IsValidUserFacingKey checks if a config key is a recognized user-facing key
func IsValidUserFacingKey(key string) bool {
	return ValidUserFacingConfigKeys[key]
}

// NormalizeKey converts a kebab-case key ("log-level") to its stored form ("loglevel")
func NormalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "-", ""))
}

// GetConfigKeyDescription returns a description for a config key
func GetConfigKeyDescription(key string) string {
	descriptions := map[string]string{
		"output":    "Default output format (text/json/yaml/toml, default: text)",
		"loglevel":  "Logging level used with --verbose (debug/info/warn/error, default: info)",
		"telemetry": "Enable crash reporting (true/false, default: true)",
	}
	return descriptions[key]
}

// GetUserFacingKeys returns the list of keys users should interact with
func GetUserFacingKeys() []string {
	return []string{
		"output",
		"log-level",
		"telemetry",
	}
}

// Load reads the configuration from ~/.filesize/config.yaml, creating it if missing
func Load() (*Config, error) {
	configPath := GetConfigPath()
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Create config file if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := ensureConfigDir(configPath); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := viper.WriteConfig(); err != nil {
			return nil, fmt.Errorf("failed to create config file: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := &Config{
		OutputFormat: viper.GetString("output"),
		LogLevel:     viper.GetString("loglevel"),
	}

	if viper.IsSet("telemetry") {
		telemetryEnabled := viper.GetBool("telemetry")
		config.TelemetryEnabled = &telemetryEnabled
	}

	return config, nil
}

// Save writes the current configuration to disk
func Save(config *Config) error {
	if config.OutputFormat != "" {
		viper.Set("output", config.OutputFormat)
	}
	if config.LogLevel != "" {
		viper.Set("loglevel", config.LogLevel)
	}

	if config.TelemetryEnabled != nil {
		viper.Set("telemetry", *config.TelemetryEnabled)
	}

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// IsTelemetryEnabled returns whether telemetry is enabled.
// Returns true by default if not explicitly set (opt-out model).
func (c *Config) IsTelemetryEnabled() bool {
	// Environment variable wins over the config file
	if envVal := os.Getenv("FILESIZE_TELEMETRY_DISABLED"); envVal != "" {
		return envVal != "true" && envVal != "1"
	}

	if c.TelemetryEnabled != nil {
		return *c.TelemetryEnabled
	}

	return true
}

// GetOutputFormat returns the configured default output format
func (c *Config) GetOutputFormat() string {
	if c.OutputFormat == "" {
		return DefaultOutputFormat
	}
	return c.OutputFormat
}

// GetLogLevel returns the configured log level as slog.Level
// Defaults to Info if not set or invalid
func (c *Config) GetLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() string {
	if path := os.Getenv("FILESIZE_CONFIG_PATH"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", DefaultConfigDir, DefaultConfigFile)
	}

	return filepath.Join(homeDir, DefaultConfigDir, DefaultConfigFile)
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755) //nolint:gosec // Config directory needs standard permissions
}

// Context key for storing config
type contextKey string

const configContextKey contextKey = "config"

// GetContextKey returns the context key used for storing config
func GetContextKey() any {
	return configContextKey
}

// GetConfigFromContext retrieves the config from the command context
func GetConfigFromContext(cmd *cobra.Command) (*Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("no context available")
	}

	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("config not found in context")
	}

	return cfg, nil
}
