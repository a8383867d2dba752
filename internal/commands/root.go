package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wwtatc/filesize/internal/batch"
	configCmd "github.com/wwtatc/filesize/internal/commands/config"
	"github.com/wwtatc/filesize/internal/measure"
	"github.com/wwtatc/filesize/internal/ui"
	uiCommands "github.com/wwtatc/filesize/internal/ui/commands"
	"github.com/wwtatc/filesize/pkg/bugsnag"
	"github.com/wwtatc/filesize/pkg/config"
	"github.com/wwtatc/filesize/pkg/logging"
)

type allocateOptions struct {
	volume string
	files  string
	from   string
	dir    string
	output string
}

func NewRootCmd() *cobra.Command {
	var opts allocateOptions

	rootCmd := &cobra.Command{
		Use:   "filesize",
		Short: "Split a data volume into evenly sized files",
		Long: `Compute how large each file should be when a total data volume is split
into a given number of files.

The per-file size is worked out in MiB. Shares of 4 MiB or more are rounded
up to the next multiple of 4 MiB; smaller shares are rounded up to a whole
MiB. Every size is printed in GiB, MiB and KiB.

Without flags, filesize prompts for the volume and a comma separated list of
file counts. Non-positive counts are reported and skipped; a malformed value
aborts the whole run.

Examples:
  # Prompt for both values
  filesize

  # 10 GiB split into 3, 8 and 16 files
  filesize --volume 10 --files 3,8,16

  # Measure the volume from files on disk
  filesize --from 'data/**/*.parquet' --files 64

  # Machine readable output
  filesize -V 10 -f 3 -o json`,
		Args: cobra.NoArgs,
		// Errors and usage are printed by main.go, on stderr, so stdout stays
		// parseable with --output json|yaml|toml
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")

			displayOpts, err := ui.NewDisplayConfig(cmd, verbose)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error getting display options: %v\n", err)
				os.Exit(1)
			}

			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				os.Exit(1)
			}

			if verbose {
				logFile, err := logging.Setup(displayOpts.IsInteractive, cfg.GetLogLevel())
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error setting up logger: %v\n", err)
					os.Exit(1)
				}
				if logFile != "" {
					fmt.Fprintf(os.Stderr, "Debug logs: %s\n", logFile)
				}
			} else {
				logging.Disable()
			}

			slog.Debug("Config loaded", "path", config.GetConfigPath())
			bugsnag.SetCommandContext(cmd.CommandPath(), args)

			ctx := context.WithValue(cmd.Context(), config.GetContextKey(), cfg)
			ctx = context.WithValue(ctx, ui.GetDisplayConfigContextKey(), displayOpts)
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAllocate(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output and the interactive prompt")
	rootCmd.PersistentFlags().Bool("no-ansi", false, "Disable colored output and the interactive prompt (equivalent to --no-color)")

	rootCmd.Flags().StringVarP(&opts.volume, "volume", "V", "", "Total data volume in GiB (prompted for if omitted)")
	rootCmd.Flags().StringVarP(&opts.files, "files", "f", "", "Comma separated file counts, e.g. 8,16,32 (prompted for if omitted)")
	rootCmd.Flags().StringVar(&opts.from, "from", "", "Measure the volume from files matching a glob, e.g. 'data/**/*.parquet'")
	rootCmd.Flags().StringVar(&opts.dir, "dir", ".", "Directory the --from pattern is matched in")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output format: text, json, yaml or toml (default from config, else text)")
	rootCmd.MarkFlagsMutuallyExclusive("volume", "from")

	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(configCmd.NewConfigCmd())

	return rootCmd
}

func runAllocate(cmd *cobra.Command, opts allocateOptions) error {
	cmd.SilenceUsage = true

	cfg, err := config.GetConfigFromContext(cmd)
	if err != nil {
		return ui.NewConfigurationError(fmt.Errorf("failed to get config: %w", err))
	}

	displayOpts, err := ui.GetDisplayConfigFromContext(cmd)
	if err != nil {
		return ui.NewInternalError(fmt.Errorf("failed to get display options: %w", err))
	}

	formatName := cfg.GetOutputFormat()
	if cmd.Flags().Changed("output") {
		formatName = opts.output
	}
	format, err := batch.ParseFormat(formatName)
	if err != nil {
		return ui.NewValidationError(err)
	}

	conf := uiCommands.AllocateConfig{
		DisplayConfig: displayOpts,
		Volume:        opts.volume,
		FileCounts:    opts.files,
		Format:        format,
		In:            cmd.InOrStdin(),
		Prompts:       cmd.OutOrStdout(),
		Out:           cmd.OutOrStdout(),
	}

	// Keep stdout parseable for structured formats
	if format != batch.FormatText {
		conf.Prompts = cmd.ErrOrStderr()
	}

	if opts.from != "" {
		res, err := measure.Glob(os.DirFS(opts.dir), opts.from)
		if err != nil {
			if errors.Is(err, measure.ErrNoMatches) {
				return ui.NewValidationError(err)
			}
			return ui.NewFileSystemError(err)
		}
		measured := res.Volume()
		conf.Measured = &measured
		conf.VolumeLabel = opts.from
		slog.Info("Measured volume", "pattern", opts.from, "files", len(res.Files), "bytes", res.Bytes, "gib", measured.String())
	}

	// Nothing to ask: skip the terminal UI entirely
	if (opts.volume != "" || conf.Measured != nil) && opts.files != "" {
		conf.DisplayConfig.IsInteractive = false
	}

	model := uiCommands.NewAllocateView(conf)

	var programOpts []tea.ProgramOption
	if conf.SimpleOutput() {
		programOpts = append(programOpts,
			tea.WithoutRenderer(),
			tea.WithInput(nil),
		)
	}

	p := tea.NewProgram(model, programOpts...)
	done := ui.SetupSignalHandling(p, 0)

	finalModel, err := p.Run()
	close(done)
	if err != nil {
		return ui.NewInternalError(fmt.Errorf("program error: %w", err))
	}

	//nolint:errcheck // Type assertion guaranteed by Bubbletea model structure
	m := finalModel.(*uiCommands.AllocateView)
	if err := m.Error(); err != nil {
		return err
	}

	if format != batch.FormatText {
		if err := batch.Encode(cmd.OutOrStdout(), m.Report(), format); err != nil {
			return ui.NewInternalError(fmt.Errorf("failed to write %s output: %w", format, err))
		}
	}

	return nil
}
