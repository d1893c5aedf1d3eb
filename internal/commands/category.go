package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/auditlog"
	"github.com/tally-dev/tally/internal/model"
)

func newCategoryCommand(global *globalOptions) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Manage income and expense categories",
	}
	categoryCmd.AddCommand(
		newCategoryAddCommand(global),
		newCategoryRemoveCommand(global),
		newCategoryListCommand(global),
	)
	return categoryCmd
}

func newCategoryAddCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <income|expense> <name>",
		Short: "Register a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return global.withApp(cmd, func(a *app) error {
				name, err := a.ledger.AddCategory(kind, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Added %s category %s\n", kind, name)
				a.record(auditlog.ActionCategoryAdd, fmt.Sprintf("%s %s", kind, name), "")
				return nil
			})
		},
	}
}

func newCategoryRemoveCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <income|expense> <name>",
		Aliases: []string{"remove"},
		Short:   "Unlist a category; recorded transactions keep it",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return global.withApp(cmd, func(a *app) error {
				if err := a.ledger.RemoveCategory(kind, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Removed %s category %s\n", kind, args[1])
				a.record(auditlog.ActionCategoryRemove, fmt.Sprintf("%s %s", kind, args[1]), "")
				return nil
			})
		},
	}
}

func newCategoryListCommand(global *globalOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []model.Kind{model.KindIncome, model.KindExpense}
			if kind != "" {
				k, err := parseKind(kind)
				if err != nil {
					return err
				}
				kinds = []model.Kind{k}
			}

			return global.withApp(cmd, func(a *app) error {
				doc, err := a.readDocument()
				if err != nil {
					return err
				}
				for _, k := range kinds {
					fmt.Fprintf(a.out, "%s: %s\n", k, strings.Join(doc.Categories.For(k), ", "))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only income or expense")

	return cmd
}
