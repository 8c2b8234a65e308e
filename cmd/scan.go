package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/table"
)

func init() {
	var indexName string
	var limit int
	var startKey string

	var scanCommand = &cobra.Command{
		Use:   "scan <table>",
		Short: "Walk every item in the table (or a secondary index)",
		Long: `Walk every item in storage-key order. With --limit, the output
includes the last evaluated key, which may be fed back via --start-key
to fetch the next page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := setup()
			if err != nil {
				return err
			}
			tbl, err := lookupTable(db, args[0])
			if err != nil {
				return err
			}

			req := table.ScanRequest{IndexName: indexName}
			if cmd.Flags().Changed("limit") {
				req.Limit = &limit
			}
			if startKey != "" {
				if indexName != "" {
					return fmt.Errorf("--start-key pagination is only supported on the table itself")
				}
				key, err := parseKeyArg(tbl, startKey)
				if err != nil {
					return err
				}
				req.ExclusiveStartKey = &key
			}

			result, err := tbl.Scan(req)
			if err != nil {
				return err
			}
			items, err := itemsJSON(result.Items)
			if err != nil {
				return err
			}
			out := struct {
				Items            []json.RawMessage `json:"items"`
				Count            int               `json:"count"`
				ScannedCount     int               `json:"scanned_count"`
				LastEvaluatedKey json.RawMessage   `json:"last_evaluated_key,omitempty"`
			}{Items: items, Count: result.Count, ScannedCount: result.ScannedCount}
			if result.LastEvaluatedKey != nil {
				raw, err := itemJSON(keys.WithKeyAttributes(tbl.Schema, *result.LastEvaluatedKey))
				if err != nil {
					return err
				}
				out.LastEvaluatedKey = raw
			}
			return printJSON(out)
		},
	}
	scanCommand.Flags().StringVar(&indexName, "index", "", "scan a secondary index instead of the table")
	scanCommand.Flags().IntVar(&limit, "limit", 0, "maximum number of items to return")
	scanCommand.Flags().StringVar(&startKey, "start-key", "", "exclusive start key for pagination (JSON key object)")
	RootCommand.AddCommand(scanCommand)
}
