package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/auditlog"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
)

func newAddCommand(global *globalOptions) *cobra.Command {
	var (
		kind, category, amount, desc, date string
		installments                       int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Example: `  tally add --category Food --amount 42.50 --desc "groceries"
  tally add --kind income --category Salary --amount 5000 --date 2025-03-05
  tally add --category Shopping --amount 1200 --installments 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := ledger.AddParams{Category: category, Description: desc}

			var err error
			if params.Kind, err = parseKind(kind); err != nil {
				return err
			}
			if params.Amount, err = parseAmount(amount); err != nil {
				return err
			}
			if date != "" {
				if params.Date, err = model.ParseDate(date); err != nil {
					return err
				}
			}
			if installments < 1 {
				return ledger.ErrInstallmentCount
			}

			return global.withApp(cmd, func(a *app) error {
				created, err := a.ledger.AddInstallments(params, installments)
				if err != nil {
					return err
				}

				doc, err := a.ledger.Document()
				if err != nil {
					return err
				}
				currency := a.currency(doc)
				for _, t := range created {
					fmt.Fprintf(a.out, "Added %s %s\n", shortID(t.ID), describe(t, currency))
				}
				a.logger.WithComponent(log.ComponentLedger).Debug("added transactions", log.FieldCount, len(created))

				details := describe(created[0], currency)
				if len(created) > 1 {
					details = fmt.Sprintf("%s %s %s in %d installments",
						params.Kind, created[0].Category, formatMoney(currency, params.Amount), len(created))
				}
				a.record(auditlog.ActionAdd, details, created[0].ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(model.KindExpense), "income or expense")
	cmd.Flags().StringVar(&category, "category", "", "category name (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount, e.g. 42.50 (required)")
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&installments, "installments", 1, "split the amount over this many months")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
