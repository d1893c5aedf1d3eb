package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/report"
)

func newReportCommand(global *globalOptions) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print totals, category breakdown, monthly history and goal progress",
		Args:  cobra.NoArgs,
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
				currency := a.currency(doc)
				ref := now()
				txns := report.Filter(doc.Transactions, p, ref)

				fmt.Fprintf(a.out, "Report (%s)\n\n", p)
				totals := report.Summarize(txns)
				fmt.Fprintf(a.out, "Income   %s\nExpense  %s\nBalance  %s\nCount    %d\n",
					formatMoney(currency, totals.Income),
					formatMoney(currency, totals.Expense),
					formatMoney(currency, totals.Balance),
					totals.Count)

				if err := renderCategories(a.out, report.ByCategory(txns), currency); err != nil {
					return err
				}
				if err := renderMonthly(a.out, report.Monthly(txns), currency); err != nil {
					return err
				}

				if len(doc.Goals) > 0 {
					fmt.Fprintln(a.out, "\nGoals this month:")
					rows := report.GoalProgress(doc.Transactions, doc.Goals, doc.Categories.Expense, ref)
					var withGoal []report.GoalRow
					for _, r := range rows {
						if r.Status != report.StatusNoGoal {
							withGoal = append(withGoal, r)
						}
					}
					return renderGoalProgress(a.out, withGoal, currency)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&period, "period", string(report.PeriodMonthly), "all, weekly, monthly or annual")

	return cmd
}

func renderCategories(w io.Writer, rows []report.CategoryRow, currency string) error {
	fmt.Fprintln(w, "\nExpenses by category:")
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "  none")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", r.Category, formatMoney(currency, r.Amount), formatPercent(r.Percent))
	}
	return tw.Flush()
}

func renderMonthly(w io.Writer, rows []report.MonthRow, currency string) error {
	fmt.Fprintln(w, "\nMonthly:")
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "  none")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  MONTH\tINCOME\tEXPENSE\tBALANCE")
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", r.Month,
			formatMoney(currency, r.Income),
			formatMoney(currency, r.Expense),
			formatMoney(currency, r.Balance))
	}
	return tw.Flush()
}
