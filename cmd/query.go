package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/query"
	"github.com/pradoz/nosquealdb/table"
)

func init() {
	var indexName string
	var skEq, skLt, skLe, skGt, skGe, skBeginsWith string
	var skBetween []string
	var limit int
	var reverse bool

	var queryCommand = &cobra.Command{
		Use:   "query <table> <partition-key>",
		Short: "Query one partition, optionally narrowed by a sort-key condition",
		Long: `Query a single partition of the table (or of a secondary index named
with --index). The partition key is a single tagged JSON value; at most
one sort-key flag may be given, e.g.

	docstore query orders '{"S": "u1"}' --sk-begins-with '{"S": "2026-"}' --limit 10`,
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
			pk, err := attr.UnmarshalJSONValue([]byte(args[1]))
			if err != nil {
				return err
			}

			skCond, err := buildSortKeyCond(skEq, skLt, skLe, skGt, skGe, skBeginsWith, skBetween)
			if err != nil {
				return err
			}

			opts := query.Options{ScanForward: !reverse}
			if cmd.Flags().Changed("limit") {
				opts.Limit = &limit
			}

			result, err := tbl.Query(table.QueryRequest{
				IndexName: indexName,
				Condition: query.KeyCondition{Pk: pk, Sk: skCond},
				Options:   opts,
			})
			if err != nil {
				return err
			}
			return printItems(result.Items, result.ScannedCount)
		},
	}
	queryCommand.Flags().StringVar(&indexName, "index", "", "query a secondary index instead of the table's own keys")
	queryCommand.Flags().StringVar(&skEq, "sk-eq", "", "sort key equals (tagged JSON value)")
	queryCommand.Flags().StringVar(&skLt, "sk-lt", "", "sort key less than")
	queryCommand.Flags().StringVar(&skLe, "sk-le", "", "sort key less than or equal")
	queryCommand.Flags().StringVar(&skGt, "sk-gt", "", "sort key greater than")
	queryCommand.Flags().StringVar(&skGe, "sk-ge", "", "sort key greater than or equal")
	queryCommand.Flags().StringVar(&skBeginsWith, "sk-begins-with", "", "sort key begins with (S or B)")
	queryCommand.Flags().StringArrayVar(&skBetween, "sk-between", nil, "sort key between, inclusive: give the flag twice, low then high")
	queryCommand.Flags().IntVar(&limit, "limit", 0, "maximum number of items to return")
	queryCommand.Flags().BoolVar(&reverse, "reverse", false, "return items in descending sort-key order")
	RootCommand.AddCommand(queryCommand)
}

func buildSortKeyCond(eq, lt, le, gt, ge, beginsWith string, between []string) (*query.SortKeyCond, error) {
	var conds []*query.SortKeyCond

	single := func(op query.SortKeyOpKind, arg string) error {
		if arg == "" {
			return nil
		}
		v, err := attr.UnmarshalJSONValue([]byte(arg))
		if err != nil {
			return err
		}
		conds = append(conds, &query.SortKeyCond{Op: op, Value: v})
		return nil
	}
	for _, pair := range []struct {
		op  query.SortKeyOpKind
		arg string
	}{
		{query.SkEq, eq},
		{query.SkLt, lt},
		{query.SkLe, le},
		{query.SkGt, gt},
		{query.SkGe, ge},
		{query.SkBeginsWith, beginsWith},
	} {
		if err := single(pair.op, pair.arg); err != nil {
			return nil, err
		}
	}

	if len(between) > 0 {
		if len(between) != 2 {
			return nil, fmt.Errorf("--sk-between takes exactly two values, low then high")
		}
		low, err := attr.UnmarshalJSONValue([]byte(between[0]))
		if err != nil {
			return nil, err
		}
		high, err := attr.UnmarshalJSONValue([]byte(between[1]))
		if err != nil {
			return nil, err
		}
		conds = append(conds, &query.SortKeyCond{Op: query.SkBetween, Low: low, High: high})
	}

	switch len(conds) {
	case 0:
		return nil, nil
	case 1:
		return conds[0], nil
	default:
		return nil, fmt.Errorf("at most one sort-key condition may be given")
	}
}

func printItems(items []attr.M, scanned int) error {
	raw, err := itemsJSON(items)
	if err != nil {
		return err
	}
	return printJSON(struct {
		Items        []json.RawMessage `json:"items"`
		Count        int               `json:"count"`
		ScannedCount int               `json:"scanned_count"`
	}{Items: raw, Count: len(raw), ScannedCount: scanned})
}
