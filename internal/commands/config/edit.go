package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"runtime"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wwtatc/filesize/internal/ui"
	"github.com/wwtatc/filesize/pkg/config"
)

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open config file in editor",
		Long: `Open ~/.filesize/config.yaml in your editor, then check the saved values.

The editor is $EDITOR, then $VISUAL, then 'vi' ('notepad' on Windows).
Unknown keys, an output format other than text/json/yaml/toml, or an unknown
log level are reported after the editor exits.

Example:
  EDITOR=nano filesize config edit`,
		Args: cobra.NoArgs,
		RunE: runEdit,
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return ui.NewConfigurationError(fmt.Errorf("config file not found"))
	}

	editor := pickEditor()
	fmt.Fprintf(cmd.ErrOrStderr(), "Opening %s with %s...\n", configFile, editor) //nolint:errcheck // Console output

	editorCmd := exec.CommandContext(cmd.Context(), editor, configFile) //nolint:gosec // Editor from user's environment variable
	editorCmd.Stdin = cmd.InOrStdin()
	editorCmd.Stdout = cmd.OutOrStdout()
	editorCmd.Stderr = cmd.ErrOrStderr()

	if err := editorCmd.Run(); err != nil {
		return ui.NewInternalError(fmt.Errorf("failed to open editor: %w", err))
	}

	if err := checkConfigFile(); err != nil {
		return ui.NewConfigurationError(fmt.Errorf("%s: %w", configFile, err))
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), "✓ Config is valid")
	return err
}

func pickEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

// checkConfigFile re-reads the config and runs every stored value through the same checks as `config set`
func checkConfigFile() error {
	if _, err := config.Load(); err != nil {
		return err
	}

	var errs []error
	for _, key := range slices.Sorted(maps.Keys(viper.AllSettings())) {
		if !config.IsValidUserFacingKey(key) {
			errs = append(errs, fmt.Errorf("unknown key %q", key))
			continue
		}
		if _, err := parseValue(key, viper.GetString(key)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
