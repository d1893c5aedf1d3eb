package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/insights"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
)

func newDashboardCommand(global *globalOptions) *cobra.Command {
	var at, month string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show balance, savings rate, forecast and budget alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := referenceDate(at, month)
			if err != nil {
				return err
			}

			return global.withApp(cmd, func(a *app) error {
				doc, err := a.readDocument()
				if err != nil {
					return err
				}

				engine := insights.New(a.cfg.InsightsOptions())
				snap, err := engine.Compute(doc.Transactions, doc.Goals, ref)
				if err != nil {
					return fmt.Errorf("computing dashboard: %w", err)
				}

				logger := a.logger.WithComponent(log.ComponentInsights)
				logger.Debug("computed dashboard",
					log.FieldMonth, snap.CurrentMonth.Month,
					"window", engine.Options().Window,
					log.FieldCount, len(doc.Transactions))
				for _, w := range snap.Warnings {
					logger.Warn(w)
				}

				return renderDashboard(a.out, snap, ref, a.currency(doc))
			})
		},
	}

	cmd.Flags().StringVar(&at, "now", "", "reference date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&month, "month", "", "show a closed month YYYY-MM as of its last day")
	cmd.MarkFlagsMutuallyExclusive("now", "month")

	return cmd
}

// referenceDate resolves the dashboard date from --now or --month.
func referenceDate(at, month string) (time.Time, error) {
	switch {
	case at != "":
		return model.ParseDate(at)
	case month != "":
		year, m, err := id.ParseMonthKey(month)
		if err != nil {
			return time.Time{}, err
		}
		return model.NewDate(year, m+1, 0), nil
	default:
		return now(), nil
	}
}

func renderDashboard(w io.Writer, snap insights.Snapshot, ref time.Time, currency string) error {
	fmt.Fprintf(w, "Dashboard for %s (as of %s)\n\n", snap.CurrentMonth.Month, formatDate(ref))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Balance (all time)\t%s\n", formatMoney(currency, snap.CumulativeBalance))
	fmt.Fprintf(tw, "This month\tincome %s\texpense %s\tbalance %s\n",
		formatMoney(currency, snap.CurrentMonth.Income),
		formatMoney(currency, snap.CurrentMonth.Expense),
		formatMoney(currency, snap.CurrentMonth.Balance()))
	fmt.Fprintf(tw, "Last month (%s)\tincome %s\texpense %s\tbalance %s\n",
		snap.PreviousMonth.Month,
		formatMoney(currency, snap.PreviousMonth.Income),
		formatMoney(currency, snap.PreviousMonth.Expense),
		formatMoney(currency, snap.PreviousMonth.Balance()))
	fmt.Fprintf(tw, "Savings rate\t%s\n", formatPercent(snap.SavingsRate))
	if snap.TopCategory.Category == insights.NoCategory {
		fmt.Fprintf(tw, "Top category\t%s\n", insights.NoCategory)
	} else {
		fmt.Fprintf(tw, "Top category\t%s (%s)\n", snap.TopCategory.Category, formatMoney(currency, snap.TopCategory.Amount))
	}
	fmt.Fprintf(tw, "Expense forecast\t%s\ttrend %s (%s/month)\n",
		formatMoney(currency, snap.Forecast), snap.Trend, formatMoney(currency, snap.Slope))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(snap.Alerts) == 0 {
		_, err := fmt.Fprintln(w, "\nNo alerts.")
		return err
	}
	fmt.Fprintln(w, "\nAlerts:")
	for _, alert := range snap.Alerts {
		fmt.Fprintf(w, "  [%s] %s\n", alert.Severity, alert.Message)
	}
	return nil
}
