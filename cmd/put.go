package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/table"
)

func init() {
	var ifNotExists bool
	var returnValue string

	var putCommand = &cobra.Command{
		Use:   "put <table> <item>",
		Short: "Write an item, replacing whatever the key currently holds",
		Long: `Write an item given as a JSON object of tagged attribute values, e.g.

	docstore put users '{"id": {"S": "u1"}, "name": {"S": "Ada"}}'

With --if-not-exists the put fails if the key is already occupied.`,
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
			item, err := attr.UnmarshalJSONItem([]byte(args[1]))
			if err != nil {
				return err
			}
			rv, err := parseReturnValue(returnValue)
			if err != nil {
				return err
			}
			result, err := tbl.Put(table.PutRequest{
				Item:        item,
				IfNotExists: ifNotExists,
				ReturnValue: rv,
			})
			if err != nil {
				return err
			}
			return printMutation(result)
		},
	}
	putCommand.Flags().BoolVar(&ifNotExists, "if-not-exists", false, "fail if an item already occupies the key")
	putCommand.Flags().StringVar(&returnValue, "return", "none", "attributes to return (none, old, new)")
	RootCommand.AddCommand(putCommand)
}

func parseReturnValue(s string) (table.ReturnValue, error) {
	switch s {
	case "", "none":
		return table.ReturnNone, nil
	case "old":
		return table.ReturnAllOld, nil
	case "new":
		return table.ReturnAllNew, nil
	default:
		return table.ReturnNone, fmt.Errorf("invalid --return value %q (none, old, new)", s)
	}
}

type mutationJSON struct {
	Existed    bool            `json:"existed"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
}

func printMutation(result table.MutationResult) error {
	attrs, err := itemJSON(result.Attributes)
	if err != nil {
		return err
	}
	return printJSON(mutationJSON{Existed: result.Existed, Attributes: attrs})
}
