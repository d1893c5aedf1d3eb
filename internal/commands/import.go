package commands

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/auditlog"
	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/log"
)

func newImportCommand(global *globalOptions) *cobra.Command {
	var format, category string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import transactions from CSV",
		Long: `Import transactions from CSV.

With a file argument that file is imported. Without one, every CSV in the
data directory's import/ folder is imported and moved to import/processed/.
Rows already recorded are skipped, so importing a file twice is safe.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := importer.DefaultRegistry()
			if registry.Get(format) == nil {
				return fmt.Errorf("unknown import format %q", format)
			}
			opts := importer.Options{Category: category}

			return global.withApp(cmd, func(a *app) error {
				logger := a.logger.WithComponent(log.ComponentImporter)

				if len(args) == 1 {
					return a.importFile(registry, args[0], format, opts)
				}

				files, err := importer.Scan(a.dir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(a.out, "Nothing to import.")
					return nil
				}
				for _, f := range files {
					if err := a.importFile(registry, f.Path, format, opts); err != nil {
						return err
					}
					if err := importer.MarkProcessed(a.dir, f.Name); err != nil {
						return err
					}
					logger.Debug("processed import file", log.FieldPath, f.Path)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "tally", "file format: tally or bank")
	cmd.Flags().StringVar(&category, "category", "", "category for rows without one (default Other)")

	return cmd
}

func (a *app) importFile(registry *importer.Registry, path, format string, opts importer.Options) error {
	txns, err := registry.ParseFile(path, format, opts)
	if err != nil {
		return err
	}
	added, err := a.ledger.Import(txns)
	if err != nil {
		return fmt.Errorf("importing %s: %w", filepath.Base(path), err)
	}

	details := fmt.Sprintf("%d of %s from %s (%s)", added, english.Plural(len(txns), "row", ""), filepath.Base(path), format)
	fmt.Fprintf(a.out, "Imported %s\n", details)
	if added > 0 {
		a.record(auditlog.ActionImport, details, "")
	}
	return nil
}
