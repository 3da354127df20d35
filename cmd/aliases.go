package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var aliasCategory string

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Manage crowd-learned aliases",
}

var aliasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List crowd aliases",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		aliases, err := st.ListAliases(ctx, aliasCategory)
		if err != nil {
			return err
		}
		for _, a := range aliases {
			fmt.Printf("%-30s → %-28s (used %d×)\n", a.SourceKey, a.TargetField, a.UsageCount)
		}
		return nil
	},
}

var aliasesAddCmd = &cobra.Command{
	Use:   "add <source-key> <target-field>",
	Short: "Record (or reinforce) a crowd alias",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}
		return st.RecordAlias(ctx, args[0], args[1], aliasCategory)
	},
}

var aliasesRmCmd = &cobra.Command{
	Use:   "rm <source-key> <target-field>",
	Short: "Delete a crowd alias",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}
		return st.DeleteAlias(ctx, args[0], args[1])
	},
}

func init() {
	aliasesCmd.PersistentFlags().StringVar(&aliasCategory, "category", "", "restrict to a category")
	aliasesCmd.AddCommand(aliasesListCmd, aliasesAddCmd, aliasesRmCmd)
	rootCmd.AddCommand(aliasesCmd)
}
