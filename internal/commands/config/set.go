package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wwtatc/filesize/internal/batch"
	"github.com/wwtatc/filesize/internal/ui"
	"github.com/wwtatc/filesize/pkg/config"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in ~/.filesize/config.yaml

Valid keys:
  output     - Default output format (text/json/yaml/toml)
  log-level  - Logging level used with --verbose (debug/info/warn/error)
  telemetry  - Enable crash reporting (true/false)

Examples:
  filesize config set output json
  filesize config set log-level debug`,
		Args: cobra.ExactArgs(2),
		RunE: runSet,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	key := args[0]
	normalizedKey := config.NormalizeKey(key)

	if !config.IsValidUserFacingKey(normalizedKey) {
		errOut := cmd.ErrOrStderr()
		//nolint:errcheck // Writing to stderr, error not actionable
		fmt.Fprintf(errOut, "Error: '%s' is not a recognized configuration key\n\n", key)
		//nolint:errcheck // Writing to stderr, error not actionable
		fmt.Fprintf(errOut, "Valid configuration keys:\n")
		for _, validKey := range config.GetUserFacingKeys() {
			desc := config.GetConfigKeyDescription(config.NormalizeKey(validKey))
			//nolint:errcheck // Writing to stderr, error not actionable
			fmt.Fprintf(errOut, "  %s - %s\n", validKey, desc)
		}
		return ui.NewValidationError(fmt.Errorf("invalid configuration key"))
	}

	value, err := parseValue(normalizedKey, args[1])
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("invalid value for %s: %w", key, err))
	}

	viper.Set(normalizedKey, value)
	if err := viper.WriteConfig(); err != nil {
		return ui.NewFileSystemError(fmt.Errorf("failed to save config: %w", err))
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %v\n", key, value)
	return err
}

// parseValue checks a raw value against its key and converts it to the stored type
func parseValue(normalizedKey, raw string) (any, error) {
	switch normalizedKey {
	case "output":
		format, err := batch.ParseFormat(raw)
		if err != nil {
			return nil, err
		}
		return string(format), nil

	case "loglevel":
		level := strings.ToLower(raw)
		switch level {
		case "debug", "info", "warn", "warning", "error":
			return level, nil
		}
		return nil, fmt.Errorf("unknown log level %q (expected debug, info, warn or error)", raw)

	case "telemetry":
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", raw)
		}
		return enabled, nil
	}

	return raw, nil
}
