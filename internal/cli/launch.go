package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opendatazurich/starterkit/internal/classify"
	"github.com/opendatazurich/starterkit/internal/config"
	"github.com/opendatazurich/starterkit/internal/launch"
)

// LaunchOptions holds flags and collaborators for the launch command.
type LaunchOptions struct {
	*RootOptions

	// Output is where the selection step renders the starter notebook.
	Output string

	// SkipSelect disables the selection step.
	SkipSelect bool

	// Config overrides the environment-derived configuration (for testing).
	Config *config.Config

	// Classifier overrides the configured classifier (for testing).
	Classifier classify.Classifier

	// Server overrides the notebook server process (for testing).
	Server *launch.Server
}

// NewLaunchCommand creates the launch command.
func NewLaunchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LaunchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Run template selection, then start the notebook server",
		Long: `Run the template selection step and then start the Jupyter notebook
server. This is the container entrypoint.

Selection problems never block the launch: the server starts even when no
package is configured or the classifier fails. The command exits with the
server's exit code.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "render the starter notebook to this path")
	cmd.Flags().BoolVar(&opts.SkipSelect, "skip-select", false, "start the server without selecting a template")

	return cmd
}

func runLaunch(opts *LaunchOptions, cmd *cobra.Command) error {
	cfg, err := resolveConfig(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read configuration", err)
	}

	if !opts.SkipSelect {
		selOpts := &SelectOptions{
			RootOptions: opts.RootOptions,
			Output:      opts.Output,
			Config:      &cfg,
			Classifier:  opts.Classifier,
		}
		// Best effort only. A failed selection leaves the image's default
		// notebook in place.
		if err := runSelect(selOpts, cmd); err != nil {
			slog.Warn("template selection failed, starting server anyway", "error", err)
		}
	}

	server := opts.Server
	if server == nil {
		server = &launch.Server{
			Bin:  cfg.JupyterBin,
			Args: launch.JupyterArgs(cfg.JupyterIP, cfg.JupyterPort),
		}
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = server.Run(ctx)
	if code := launch.ExitCode(err); code != 0 {
		return WrapExitError(code, fmt.Sprintf("notebook server exited with code %d", code), err)
	}
	return nil
}
