package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/opendatazurich/starterkit/internal/ckan"
	"github.com/opendatazurich/starterkit/internal/classify"
	"github.com/opendatazurich/starterkit/internal/config"
	"github.com/opendatazurich/starterkit/internal/notebook"
)

// RenderOptions holds flags and collaborators for the render command.
type RenderOptions struct {
	*RootOptions
	Resource string
	Template string
	Output   string

	// BaseURL overrides the CKAN API endpoint (for testing).
	BaseURL string

	// Now overrides the clock (for testing).
	Now func() time.Time
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <package-id>",
		Short: "Render a starter notebook for a dataset package",
		Long: `Render a starter notebook for a dataset package. The template is chosen
from the package's dataset type unless --template overrides it.

Example:
  starterkit render velozaehlungen --output starter.Rmd
  starterkit render zonenplan --template geo.Rmd.tmpl`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Resource, "resource", config.ResourceNone, "resource id within the package")
	cmd.Flags().StringVar(&opts.Template, "template", "", "template file override")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output path (default: stdout)")

	return cmd
}

func runRender(opts *RenderOptions, packageID string, cmd *cobra.Command) error {
	baseURL := opts.BaseURL
	if baseURL == "" {
		cfg, err := config.FromEnv()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read configuration", err)
		}
		baseURL = cfg.APIBaseURL
	}

	client := ckan.New(baseURL)
	pkg, err := client.PackageShow(commandContext(cmd), packageID)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to fetch package %q", packageID), err)
	}

	tag := classify.FromPackage(pkg)
	template := opts.Template
	if template == "" {
		manifest, err := notebook.LoadManifest()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load template manifest", err)
		}
		template, _ = manifest.Select(tag)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	params, err := notebook.NewParams(pkg, opts.Resource, tag, now().Format("2006-01-02"))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resolve resource", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create output file", err)
		}
		defer f.Close()
		w = f
	}

	if err := notebook.Render(w, template, params); err != nil {
		return WrapExitError(ExitCommandError, "failed to render starter notebook", err)
	}
	return nil
}
