package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opendatazurich/starterkit/internal/classify"
	"github.com/opendatazurich/starterkit/internal/config"
)

// ClassifyOptions holds flags and collaborators for the classify command.
type ClassifyOptions struct {
	*RootOptions

	// Classifier overrides the configured classifier (for testing).
	Classifier classify.Classifier
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClassifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "classify <package-id>",
		Short: "Print the dataset type of a package",
		Long: `Classify a dataset package by its distributions and print the type tag:
"geo" for geodata, "csv" for tabular data, "unknown" otherwise.

Exits 1 when the type is unknown and 2 when the package lookup fails.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(opts, args[0], cmd)
		},
	}

	return cmd
}

func runClassify(opts *ClassifyOptions, packageID string, cmd *cobra.Command) error {
	classifier := opts.Classifier
	if classifier == nil {
		cfg, err := config.FromEnv()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read configuration", err)
		}
		classifier = newClassifier(cfg)
	}

	tag, err := classifier.Classify(commandContext(cmd), packageID)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to classify package %q", packageID), err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(tag))

	if tag == classify.TagUnknown {
		return NewExitError(ExitFailure, fmt.Sprintf("package %q has no tabular or geodata distribution", packageID))
	}
	return nil
}
