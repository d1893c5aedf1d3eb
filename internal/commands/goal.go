package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/auditlog"
	"github.com/tally-dev/tally/internal/report"
)

func newGoalCommand(global *globalOptions) *cobra.Command {
	goalCmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage monthly spending goals",
	}
	goalCmd.AddCommand(
		newGoalSetCommand(global),
		newGoalRemoveCommand(global),
		newGoalListCommand(global),
	)
	return goalCmd
}

func newGoalSetCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <limit>",
		Short: "Set the monthly limit of an expense category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return global.withApp(cmd, func(a *app) error {
				name, err := a.ledger.SetGoal(args[0], limit)
				if err != nil {
					return err
				}
				details := fmt.Sprintf("%s limit %s", name, formatMoney(a.cfg.Currency, limit))
				fmt.Fprintf(a.out, "Goal set: %s\n", details)
				a.record(auditlog.ActionGoalSet, details, "")
				return nil
			})
		},
	}
}

func newGoalRemoveCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <category>",
		Aliases: []string{"remove"},
		Short:   "Remove the goal of a category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return global.withApp(cmd, func(a *app) error {
				if err := a.ledger.RemoveGoal(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Goal removed: %s\n", args[0])
				a.record(auditlog.ActionGoalRemove, args[0], "")
				return nil
			})
		},
	}
}

func newGoalListCommand(global *globalOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show this month's progress against each goal",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return global.withApp(cmd, func(a *app) error {
				doc, err := a.readDocument()
				if err != nil {
					return err
				}

				categories := doc.Categories.Expense
				if !all {
					categories = make([]string, 0, len(doc.Goals))
					for _, g := range doc.Goals {
						categories = append(categories, g.Category)
					}
				}
				if len(categories) == 0 {
					fmt.Fprintln(a.out, "No goals set.")
					return nil
				}

				rows := report.GoalProgress(doc.Transactions, doc.Goals, categories, now())
				return renderGoalProgress(a.out, rows, a.currency(doc))
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include expense categories without a goal")

	return cmd
}

func renderGoalProgress(w io.Writer, rows []report.GoalRow, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSPENT\tLIMIT\tUSED\tREMAINING\tSTATUS")
	for _, r := range rows {
		limit, remaining := "-", "-"
		if r.Limit.IsPositive() {
			limit = formatMoney(currency, r.Limit)
			remaining = formatMoney(currency, r.Remaining)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Category, formatMoney(currency, r.Spent), limit, formatPercent(r.Percent), remaining, r.Status)
	}
	return tw.Flush()
}
