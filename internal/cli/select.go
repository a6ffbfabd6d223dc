package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/opendatazurich/starterkit/internal/ckan"
	"github.com/opendatazurich/starterkit/internal/classify"
	"github.com/opendatazurich/starterkit/internal/config"
	"github.com/opendatazurich/starterkit/internal/notebook"
)

// SelectOptions holds flags and collaborators for the select command.
type SelectOptions struct {
	*RootOptions

	// Output renders the selected starter notebook to this path. Empty
	// means selection only.
	Output string

	// Config overrides the environment-derived configuration (for testing).
	Config *config.Config

	// Classifier overrides the configured classifier (for testing).
	Classifier classify.Classifier
}

// Selection is the outcome of the template selection step.
type Selection struct {
	PackageID  string `json:"package_id"`
	ResourceID string `json:"resource_id"`
	Type       string `json:"type"`
	Template   string `json:"template"`
	Fallback   bool   `json:"fallback"`
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select the starter template for the configured dataset",
		Long: `Select the starter notebook template for the dataset named by the
PACKAGE_ID and RESOURCE_ID environment variables.

Without PACKAGE_ID the command keeps the image's built-in default notebook
and exits successfully. An unrecognized dataset type (or a classifier
failure) falls back to the tabular starter; startup is never blocked.

Example:
  PACKAGE_ID=velozaehlungen starterkit select
  PACKAGE_ID=zonenplan starterkit select --output /home/jovyan/starter.Rmd`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "render the starter notebook to this path")

	return cmd
}

func runSelect(opts *SelectOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Notices go to stderr in JSON mode to keep stdout parseable.
	out := cmd.OutOrStdout()
	if formatter.Format == "json" {
		out = cmd.ErrOrStderr()
	}

	cfg, err := resolveConfig(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read configuration", err)
	}

	sel, selected, err := selectTemplate(commandContext(cmd), cfg, opts.Classifier, out)
	if err != nil {
		return err
	}
	if !selected {
		return nil
	}

	if formatter.Format == "json" {
		if err := formatter.Success(sel); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Selected template %s for package %s (resource %s).\n",
			sel.Template, sel.PackageID, sel.ResourceID)
	}

	if opts.Output == "" {
		return nil
	}
	if err := renderSelection(commandContext(cmd), cfg, sel, opts.Output); err != nil {
		return WrapExitError(ExitCommandError, "failed to render starter notebook", err)
	}
	fmt.Fprintf(out, "Rendered starter notebook to %s.\n", opts.Output)
	return nil
}

// selectTemplate implements the selection policy. It returns selected=false
// on the "no package configured" early exit. Classifier failures are not
// errors: both an unknown type and a failed classification fall back to the
// default template, so container startup never fails here.
func selectTemplate(ctx context.Context, cfg config.Config, classifier classify.Classifier, out io.Writer) (Selection, bool, error) {
	if !cfg.HasPackage() {
		fmt.Fprintln(out, "No package id set. Keeping the built-in default dataset notebook.")
		return Selection{}, false, nil
	}

	resourceID, substituted := cfg.Resource()
	if substituted {
		fmt.Fprintf(out, "No resource id set. Using %q to pick the first suitable resource.\n", resourceID)
	}

	if classifier == nil {
		classifier = newClassifier(cfg)
	}
	tag, err := classifier.Classify(ctx, cfg.PackageID)
	if err != nil {
		// Failure and "unknown type" share the fallback path.
		slog.Debug("classification failed", "package", cfg.PackageID, "error", err)
		tag = classify.TagUnknown
	}

	manifest, err := notebook.LoadManifest()
	if err != nil {
		return Selection{}, false, WrapExitError(ExitCommandError, "failed to load template manifest", err)
	}

	template, known := manifest.Select(tag)
	if !known {
		fmt.Fprintf(out, "Warning: unknown dataset type %q for package %s. Falling back to the tabular starter.\n",
			tag, cfg.PackageID)
	}

	return Selection{
		PackageID:  cfg.PackageID,
		ResourceID: resourceID,
		Type:       string(tag),
		Template:   template,
		Fallback:   !known,
	}, true, nil
}

// renderSelection materializes the selected starter notebook.
func renderSelection(ctx context.Context, cfg config.Config, sel Selection, path string) error {
	client := ckan.New(cfg.APIBaseURL)
	pkg, err := client.PackageShow(ctx, sel.PackageID)
	if err != nil {
		return err
	}

	params, err := notebook.NewParams(pkg, sel.ResourceID, classify.ParseTag(sel.Type), time.Now().Format("2006-01-02"))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := notebook.Render(f, sel.Template, params); err != nil {
		return err
	}
	return f.Close()
}

// resolveConfig returns the override when set, the environment otherwise.
func resolveConfig(override *config.Config) (config.Config, error) {
	if override != nil {
		return *override, nil
	}
	return config.FromEnv()
}
