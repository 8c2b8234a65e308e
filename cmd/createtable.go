package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	var createTableCommand = &cobra.Command{
		Use:   "create-table",
		Short: "Create the tables in the definition file and describe them",
		Long: `Create every table (and secondary index) named in the table-definition
file, then print each table's description. Because the store is
in-memory, this is chiefly a validation tool: a definition the command
accepts is one every other subcommand will accept too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := setup()
			if err != nil {
				return err
			}
			var descriptions []interface{}
			for _, name := range db.TableNames() {
				desc, err := db.DescribeTable(name)
				if err != nil {
					return err
				}
				descriptions = append(descriptions, describeJSON(desc))
			}
			return printJSON(descriptions)
		},
	}
	RootCommand.AddCommand(createTableCommand)
}
