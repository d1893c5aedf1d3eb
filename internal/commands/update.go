package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/auditlog"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
)

func newUpdateCommand(global *globalOptions) *cobra.Command {
	var kind, category, amount, desc, date string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a recorded transaction",
		Long:  "Change fields of a recorded transaction. Only the flags given are changed; an ID prefix is enough when it is unique.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params ledger.UpdateParams
			flags := cmd.Flags()

			if flags.Changed("kind") {
				k, err := parseKind(kind)
				if err != nil {
					return err
				}
				params.Kind = &k
			}
			if flags.Changed("category") {
				params.Category = &category
			}
			if flags.Changed("amount") {
				a, err := parseAmount(amount)
				if err != nil {
					return err
				}
				params.Amount = &a
			}
			if flags.Changed("desc") {
				params.Description = &desc
			}
			if flags.Changed("date") {
				d, err := model.ParseDate(date)
				if err != nil {
					return err
				}
				params.Date = &d
			}
			if params == (ledger.UpdateParams{}) {
				return fmt.Errorf("nothing to update: pass at least one of --kind, --category, --amount, --desc, --date")
			}

			return global.withApp(cmd, func(a *app) error {
				txnID, err := a.ledger.Resolve(args[0])
				if err != nil {
					return err
				}
				updated, err := a.ledger.Update(txnID, params)
				if err != nil {
					return err
				}

				doc, err := a.ledger.Document()
				if err != nil {
					return err
				}
				details := describe(updated, a.currency(doc))
				fmt.Fprintf(a.out, "Updated %s %s\n", shortID(updated.ID), details)
				a.record(auditlog.ActionUpdate, details, updated.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "income or expense")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount")
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD")

	return cmd
}
