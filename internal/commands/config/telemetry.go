package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wwtatc/filesize/internal/ui"
	"github.com/wwtatc/filesize/pkg/config"
)

func newTelemetryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telemetry",
		Short: "Manage crash reporting",
		Long: `Manage crash reporting for filesize.

Only crash reports and unexpected internal errors are ever sent, never your
inputs. Reporting can also be switched off for a single run with:
  export FILESIZE_TELEMETRY_DISABLED=true`,
	}

	cmd.AddCommand(newTelemetrySwitchCmd("enable", "Enable crash reporting", true))
	cmd.AddCommand(newTelemetrySwitchCmd("disable", "Disable crash reporting", false))
	cmd.AddCommand(newTelemetryStatusCmd())

	return cmd
}

func newTelemetrySwitchCmd(use, short string, enable bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.Load()
			if err != nil {
				return ui.NewConfigurationError(fmt.Errorf("failed to load config: %w", err))
			}

			cfg.TelemetryEnabled = &enable
			if err := config.Save(cfg); err != nil {
				return ui.NewFileSystemError(fmt.Errorf("failed to save config: %w", err))
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ Telemetry %sd\n", use)
			return err
		},
	}
}

func newTelemetryStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether crash reporting is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.Load()
			if err != nil {
				return ui.NewConfigurationError(fmt.Errorf("failed to load config: %w", err))
			}

			status := "disabled"
			if cfg.IsTelemetryEnabled() {
				status = "enabled"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Telemetry: %s\n", status)
			return err
		},
	}
}
