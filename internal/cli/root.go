// Package cli wires the starter kit's commands together.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendatazurich/starterkit/internal/ckan"
	"github.com/opendatazurich/starterkit/internal/classify"
	"github.com/opendatazurich/starterkit/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the starterkit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "starterkit",
		Short: "OpenDataZurich notebook starter kit",
		Long: "Bootstraps a data project container: classifies a dataset package,\n" +
			"selects and renders a starter notebook, and launches the notebook server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSelectCommand(opts))
	cmd.AddCommand(NewClassifyCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewLaunchCommand(opts))

	return cmd
}

// configureLogging sets the default slog handler for the process.
func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// commandContext returns the command's context, falling back to a
// background context when the command runs outside Execute (tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newClassifier builds the classifier configured by the environment: an
// external command when CLASSIFY_CMD is set, the CKAN API otherwise.
func newClassifier(cfg config.Config) classify.Classifier {
	if cfg.ClassifyCmd != "" {
		return &classify.Command{Argv: strings.Fields(cfg.ClassifyCmd)}
	}
	return &classify.API{Client: ckan.New(cfg.APIBaseURL)}
}
