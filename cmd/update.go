package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/table"
	"github.com/pradoz/nosquealdb/update"
)

func init() {
	var sets, setsIfNotExists, removes, adds, deletes []string
	var returnValue string

	var updateCommand = &cobra.Command{
		Use:   "update <table> <key>",
		Short: "Apply update actions to the item at a key",
		Long: `Apply one or more update actions, in flag order within each kind
(set, set-if-not-exists, remove, add, delete). Paths use dotted/indexed
form (address.city, tags[0]); values are tagged JSON, e.g.

	docstore update docs '{"id": {"S": "doc1"}}' \
	    --set 'content={"S": "y"}' --add 'version={"N": "1"}'`,
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
			expr, err := buildExpression(sets, setsIfNotExists, removes, adds, deletes)
			if err != nil {
				return err
			}
			rv, err := parseReturnValue(returnValue)
			if err != nil {
				return err
			}
			result, err := tbl.Update(table.UpdateRequest{
				Key:         key,
				Expression:  expr,
				ReturnValue: rv,
			})
			if err != nil {
				return err
			}
			return printMutation(result)
		},
	}
	updateCommand.Flags().StringArrayVar(&sets, "set", nil, "set action: path={tagged JSON value}")
	updateCommand.Flags().StringArrayVar(&setsIfNotExists, "set-if-not-exists", nil, "set action that only applies when the path is absent")
	updateCommand.Flags().StringArrayVar(&removes, "remove", nil, "remove action: path")
	updateCommand.Flags().StringArrayVar(&adds, "add", nil, "add action (numbers and sets): path={tagged JSON value}")
	updateCommand.Flags().StringArrayVar(&deletes, "delete", nil, "set-subtraction action: path={tagged JSON value}")
	updateCommand.Flags().StringVar(&returnValue, "return", "new", "attributes to return (none, old, new)")
	RootCommand.AddCommand(updateCommand)
}

func buildExpression(sets, setsIfNotExists, removes, adds, deletes []string) (update.Expression, error) {
	var expr update.Expression
	for _, s := range sets {
		path, value, err := parsePathValue(s)
		if err != nil {
			return nil, err
		}
		expr = append(expr, update.Set{Path: path, Value: value})
	}
	for _, s := range setsIfNotExists {
		path, value, err := parsePathValue(s)
		if err != nil {
			return nil, err
		}
		expr = append(expr, update.SetIfNotExists{Path: path, Value: value})
	}
	for _, s := range removes {
		path, err := attr.ParsePath(s)
		if err != nil {
			return nil, err
		}
		expr = append(expr, update.Remove{Path: path})
	}
	for _, s := range adds {
		path, value, err := parsePathValue(s)
		if err != nil {
			return nil, err
		}
		expr = append(expr, update.Add{Path: path, Value: value})
	}
	for _, s := range deletes {
		path, value, err := parsePathValue(s)
		if err != nil {
			return nil, err
		}
		expr = append(expr, update.Delete{Path: path, Value: value})
	}
	if len(expr) == 0 {
		return nil, fmt.Errorf("no update actions given")
	}
	return expr, nil
}

func parsePathValue(s string) (attr.Path, attr.Value, error) {
	i := strings.Index(s, "=")
	if i < 0 {
		return nil, nil, fmt.Errorf("action %q must have the form path=value", s)
	}
	path, err := attr.ParsePath(s[:i])
	if err != nil {
		return nil, nil, err
	}
	value, err := attr.UnmarshalJSONValue([]byte(s[i+1:]))
	if err != nil {
		return nil, nil, err
	}
	return path, value, nil
}
