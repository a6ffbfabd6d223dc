package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/opendatazurich/starterkit/internal/catalog"
	"github.com/opendatazurich/starterkit/internal/ckan"
	"github.com/opendatazurich/starterkit/internal/config"
)

// CatalogOptions holds flags for the catalog subcommands.
type CatalogOptions struct {
	*RootOptions
	Database string
	Limit    int
	Language string

	// BaseURL overrides the CKAN API endpoint (for testing).
	BaseURL string
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with a local cache of the data portal catalog",
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the SQLite catalog cache")

	sync := &cobra.Command{
		Use:   "sync",
		Short: "Download the full package list into the local cache",
		Long: `Page through the portal's package list and store every package with its
resources in the local SQLite cache.

Example:
  starterkit catalog sync --db ./catalog.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogSync(opts, cmd)
		},
	}
	sync.Flags().IntVar(&opts.Limit, "limit", 500, "page size for catalog downloads")

	show := &cobra.Command{
		Use:   "show <package-id>",
		Short: "Print metadata for one package",
		Long: `Print metadata for a package from the local cache, falling back to the
portal API when the package is not cached or no cache is configured.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogShow(opts, args[0], cmd)
		},
	}
	show.Flags().StringVar(&opts.Language, "language", "de", "language for localized metadata (de/en/fr/it)")

	cmd.AddCommand(sync)
	cmd.AddCommand(show)

	return cmd
}

func runCatalogSync(opts *CatalogOptions, cmd *cobra.Command) error {
	if opts.Database == "" {
		return NewExitError(ExitCommandError, "catalog sync requires --db")
	}

	store, err := catalog.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open catalog cache", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("error closing catalog cache", "error", closeErr)
		}
	}()

	client := ckan.New(catalogBaseURL(opts))

	total := 0
	for offset := 0; ; offset += opts.Limit {
		page, err := client.CurrentPackageList(commandContext(cmd), opts.Limit, offset)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to download package list", err)
		}
		if len(page) == 0 {
			break
		}

		if err := store.UpsertPackages(commandContext(cmd), page); err != nil {
			return WrapExitError(ExitCommandError, "failed to store packages", err)
		}
		total += len(page)
		slog.Info("catalog page stored", "offset", offset, "packages", len(page))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Synced %d package(s) to %s.\n", total, opts.Database)
	return nil
}

func runCatalogShow(opts *CatalogOptions, packageID string, cmd *cobra.Command) error {
	pkg, err := lookupPackage(commandContext(cmd), opts, packageID)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to look up package %q", packageID), err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if formatter.Format == "json" {
		return formatter.Success(pkg)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dataset:    %s\n", pkg.Title)
	fmt.Fprintf(out, "Name:       %s\n", pkg.Name)
	fmt.Fprintf(out, "Publisher:  %s\n", pkg.Author)
	if org := pkg.Organization.Title.In(opts.Language); org != "" {
		fmt.Fprintf(out, "Office:     %s\n", org)
	}
	fmt.Fprintf(out, "Maintainer: %s <%s>\n", pkg.Maintainer, pkg.MaintainerEmail)
	fmt.Fprintf(out, "Portal:     %s%s\n", ckan.PortalDatasetURL, pkg.Name)

	fmt.Fprintf(out, "Resources:  %d\n", len(pkg.Resources))
	counts := pkg.FormatCounts()
	formats := make([]string, 0, len(counts))
	for f := range counts {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		fmt.Fprintf(out, "  %-10s %d\n", f, counts[f])
	}
	return nil
}

// lookupPackage prefers the local cache and falls back to the API.
func lookupPackage(ctx context.Context, opts *CatalogOptions, packageID string) (*ckan.Package, error) {
	if opts.Database != "" {
		store, err := catalog.Open(opts.Database)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		pkg, err := store.GetPackage(ctx, packageID)
		if err == nil {
			return pkg, nil
		}
		if !errors.Is(err, catalog.ErrNotCached) {
			return nil, err
		}
		slog.Debug("package not cached, querying portal", "package", packageID)
	}

	client := ckan.New(catalogBaseURL(opts))
	return client.PackageShow(ctx, packageID)
}

// catalogBaseURL resolves the API endpoint for catalog commands.
func catalogBaseURL(opts *CatalogOptions) string {
	if opts.BaseURL != "" {
		return opts.BaseURL
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return ckan.DefaultBaseURL
	}
	return cfg.APIBaseURL
}
