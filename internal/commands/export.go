package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/report"
)

func newExportCommand(global *globalOptions) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write transactions as CSV to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := report.ParsePeriod(period)
			if err != nil {
				return err
			}

			return global.withApp(cmd, func(a *app) error {
				doc, err := a.readDocument()
				if err != nil {
					return err
				}
				txns := report.Filter(doc.Transactions, p, now())

				if len(args) == 0 {
					return ledger.WriteTransactions(a.out, txns)
				}

				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating %s: %w", args[0], err)
				}
				if err := ledger.WriteTransactions(f, txns); err != nil {
					f.Close()
					return fmt.Errorf("writing %s: %w", args[0], err)
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("closing %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", english.Plural(len(txns), "transaction", ""), args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&period, "period", string(report.PeriodAll), "all, weekly, monthly or annual")

	return cmd
}
