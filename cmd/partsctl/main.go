// Package main implements partsctl, the offline maintenance tool for the
// partsbin catalog: importing a CSV inventory, linking part photos and
// writing the CSV export without the server.
//
// Flags default to the same environment variables the server reads
// (CATALOG_PATH, EXPORT_PATH, IMAGE_DIR, SORT_LOCALE).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"partsbin/internal/config"
	"partsbin/internal/export"
	"partsbin/internal/maintenance"
	"partsbin/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Each call returns a fresh tree so
// tests can run commands with their own flags and output.
func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:          "partsctl",
		Short:        "Maintenance commands for the partsbin catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	// settings gives subcommands the loaded config after PersistentPreRunE.
	settings := func() *config.Config { return cfg }

	root.AddCommand(
		newImportCmd(settings),
		newLinkImagesCmd(settings),
		newExportCmd(settings),
	)
	return root
}

func newImportCmd(settings func() *config.Config) *cobra.Command {
	var csvPath, outPath, locale string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Build the catalog document from a CSV inventory",
		Long: `Reads a CSV file with a header row (ID or XX, Name, Quantity,
Category or Rodzaj, Description), groups parts by category, sorts the
categories with the locale collator and writes the catalog document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings()
			if outPath == "" {
				outPath = cfg.CatalogPath
			}
			tag := cfg.Locale()
			if locale != "" {
				var err error
				if tag, err = language.Parse(locale); err != nil {
					return fmt.Errorf("--locale %q: %w", locale, err)
				}
			}

			n, err := maintenance.Import(csvPath, outPath, tag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d parts into %s\n", n, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV inventory to import")
	cmd.Flags().StringVar(&outPath, "out", "", "catalog document to write (default $CATALOG_PATH)")
	cmd.Flags().StringVar(&locale, "locale", "", "collation locale for category order (default $SORT_LOCALE)")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func newLinkImagesCmd(settings func() *config.Config) *cobra.Command {
	var catalogPath, imageDir string

	cmd := &cobra.Command{
		Use:   "link-images",
		Short: "Set each part's photo from the image directory",
		Long: `Clears every part's image and links the photo whose file name
matches the part's sanitized name. A leading 1N in a name or file also
matches IN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings()
			if catalogPath == "" {
				catalogPath = cfg.CatalogPath
			}
			if imageDir == "" {
				imageDir = cfg.ImageDir
			}

			linked, err := maintenance.LinkCatalogImages(catalogPath, imageDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %d images\n", linked)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog document (default $CATALOG_PATH)")
	cmd.Flags().StringVar(&imageDir, "images", "", "photo directory (default $IMAGE_DIR)")
	return cmd
}

func newExportCmd(settings func() *config.Config) *cobra.Command {
	var catalogPath, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings()
			if catalogPath == "" {
				catalogPath = cfg.CatalogPath
			}
			if outPath == "" {
				outPath = cfg.ExportPath
			}

			s := store.NewCatalogStore(catalogPath, cfg.Locale())
			res, err := export.NewJob(s, outPath, nil).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", res.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog document (default $CATALOG_PATH)")
	cmd.Flags().StringVar(&outPath, "out", "", "CSV file to write (default $EXPORT_PATH)")
	return cmd
}
