package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wwtatc/filesize/pkg/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration",
		Long: `List all configuration keys and values from ~/.filesize/config.yaml

Example:
  filesize config list`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	out := cmd.OutOrStdout()
	found := false

	// GetUserFacingKeys is already in display order
	for _, key := range config.GetUserFacingKeys() {
		normalizedKey := config.NormalizeKey(key)
		if !viper.IsSet(normalizedKey) {
			continue
		}
		found = true
		fmt.Fprintf(out, "%s: %v\n", key, viper.Get(normalizedKey)) //nolint:errcheck // Console output
	}

	if !found {
		fmt.Fprintln(out, "No configuration found") //nolint:errcheck // Console output
	}
	return nil
}
