package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/auditlog"
)

func newDeleteCommand(global *globalOptions) *cobra.Command {
	var group bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return global.withApp(cmd, func(a *app) error {
				txnID, err := a.ledger.Resolve(args[0])
				if err != nil {
					return err
				}

				if !group {
					removed, err := a.ledger.Delete(txnID)
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "Deleted %s\n", shortID(removed.ID))
					a.record(auditlog.ActionDelete, describe(removed, a.cfg.Currency), removed.ID)
					return nil
				}

				doc, err := a.ledger.Document()
				if err != nil {
					return err
				}
				i, _ := doc.Find(txnID)
				t := doc.Transactions[i]
				if !t.IsInstallment() {
					return fmt.Errorf("transaction %s is not part of an installment group", shortID(txnID))
				}
				removed, err := a.ledger.DeleteGroup(t.Installment.Group)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted %d installments of %s\n", len(removed), t.Installment.Group)
				a.record(auditlog.ActionDelete, fmt.Sprintf("installment group %s (%d parts)", t.Installment.Group, len(removed)), txnID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&group, "group", false, "delete every installment of the transaction's group")

	return cmd
}
