package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/report"
)

func newListCommand(global *globalOptions) *cobra.Command {
	var period, kind, category string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := report.ParsePeriod(period)
			if err != nil {
				return err
			}
			var k model.Kind
			if kind != "" {
				if k, err = parseKind(kind); err != nil {
					return err
				}
			}

			return global.withApp(cmd, func(a *app) error {
				doc, err := a.readDocument()
				if err != nil {
					return err
				}

				var txns []model.Transaction
				for _, t := range report.Filter(doc.Transactions, p, now()) {
					if k != "" && t.Kind != k {
						continue
					}
					if category != "" && !strings.EqualFold(t.Category, strings.TrimSpace(category)) {
						continue
					}
					txns = append(txns, t)
				}
				report.SortByDateDesc(txns)

				return renderTransactions(a.out, txns, a.currency(doc))
			})
		},
	}

	cmd.Flags().StringVar(&period, "period", string(report.PeriodAll), "all, weekly, monthly or annual")
	cmd.Flags().StringVar(&kind, "kind", "", "only income or expense")
	cmd.Flags().StringVar(&category, "category", "", "only this category")

	return cmd
}

func renderTransactions(w io.Writer, txns []model.Transaction, currency string) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(w, "No transactions found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tKIND\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, t := range txns {
		amount := formatMoney(currency, t.Amount)
		if t.Kind == model.KindExpense {
			amount = "-" + amount
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(t.ID), formatDate(t.Date), t.Kind, t.Category, amount, t.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	totals := report.Summarize(txns)
	_, err := fmt.Fprintf(w, "\n%s  income %s  expense %s  balance %s\n",
		english.Plural(totals.Count, "transaction", ""),
		formatMoney(currency, totals.Income),
		formatMoney(currency, totals.Expense),
		formatMoney(currency, totals.Balance))
	return err
}
