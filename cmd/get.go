package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/pradoz/nosquealdb/table"
)

func init() {
	var getCommand = &cobra.Command{
		Use:   "get <table> <key>",
		Short: "Read a single item by primary key",
		Long: `Read one item. The key is a JSON object carrying the schema's key
attributes, e.g.

	docstore get users '{"id": {"S": "u1"}}'`,
		Args: cobra.ExactArgs(2),
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
			result, err := tbl.Get(table.GetRequest{Key: key})
			if err != nil {
				return err
			}
			item, err := itemJSON(result.Item)
			if err != nil {
				return err
			}
			return printJSON(struct {
				Found bool            `json:"found"`
				Item  json.RawMessage `json:"item,omitempty"`
			}{Found: result.Found, Item: item})
		},
	}
	RootCommand.AddCommand(getCommand)
}
