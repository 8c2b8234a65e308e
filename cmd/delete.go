package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pradoz/nosquealdb/table"
)

func init() {
	var returnValue string

	var deleteCommand = &cobra.Command{
		Use:   "delete <table> <key>",
		Short: "Delete a single item by primary key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := setup()
			if err != nil {
				return err
			}
			tbl, err := lookupTable(db, args[0])
			if err != nil {
				return err
			}
			key, err := parseKeyArg(tbl, args[1])
			if err != nil {
				return err
			}
			rv, err := parseReturnValue(returnValue)
			if err != nil {
				return err
			}
			result, err := tbl.Delete(table.DeleteRequest{Key: key, ReturnValue: rv})
			if err != nil {
				return err
			}
			return printMutation(result)
		},
	}
	deleteCommand.Flags().StringVar(&returnValue, "return", "none", "attributes to return (none, old)")
	RootCommand.AddCommand(deleteCommand)
}
