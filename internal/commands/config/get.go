package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wwtatc/filesize/internal/ui"
	"github.com/wwtatc/filesize/pkg/config"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value from ~/.filesize/config.yaml

Examples:
  filesize config get output
  filesize config get log-level`,
		Args: cobra.ExactArgs(1),
		RunE: runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	key := args[0]
	normalizedKey := config.NormalizeKey(key)

	if !config.IsValidUserFacingKey(normalizedKey) {
		return ui.NewValidationError(fmt.Errorf("'%s' is not a recognized configuration key. Run 'filesize config set --help' for valid keys", key))
	}

	if !viper.IsSet(normalizedKey) {
		return ui.NewValidationError(fmt.Errorf("configuration key '%s' not set", key))
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), viper.Get(normalizedKey))
	return err
}
