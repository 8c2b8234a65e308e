// Package cmd implements the docstore command-line interface: one-shot
// subcommands that load table definitions (and optionally seed data),
// run a single request against the resulting in-memory database and
// print the outcome as JSON.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/batch"
	"github.com/pradoz/nosquealdb/config"
	"github.com/pradoz/nosquealdb/database"
	"github.com/pradoz/nosquealdb/internal/logging"
	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/table"
)

// RootCommand is the base CLI command that all subcommands are added to.
var RootCommand = &cobra.Command{
	Use:   "docstore",
	Short: "In-memory document store",
	Long:  "An in-memory, single-node document store with secondary indexes, conditional writes and transactions.",
}

var rootParams = struct {
	configFile string
	dataFile   string
	logLevel   string
	logFormat  string
}{}

func init() {
	RootCommand.PersistentFlags().StringVarP(&rootParams.configFile, "config", "c", "", "table-definition file (YAML or JSON)")
	RootCommand.PersistentFlags().StringVarP(&rootParams.dataFile, "data", "d", "", "seed-data file: JSON object mapping table names to item lists")
	RootCommand.PersistentFlags().StringVar(&rootParams.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	RootCommand.PersistentFlags().StringVar(&rootParams.logFormat, "log-format", "json", "log format (text, json, json-pretty)")
}

func newLogger() (*logging.Logger, error) {
	level, err := logging.ParseLevel(rootParams.logLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level, rootParams.logFormat), nil
}

// setup builds the database described by --config, seeds it from --data
// and attaches the configured logger to every table.
func setup() (*database.Database, *logging.Logger, error) {
	log, err := newLogger()
	if err != nil {
		return nil, nil, err
	}

	if rootParams.configFile == "" {
		return nil, nil, fmt.Errorf("a table-definition file is required (--config)")
	}
	cfg, err := loadConfig(rootParams.configFile)
	if err != nil {
		return nil, nil, err
	}

	db := database.New()
	for _, def := range cfg.Tables {
		tbl, err := db.CreateTable(def)
		if err != nil {
			return nil, nil, err
		}
		tbl.SetLogger(log)
	}

	if rootParams.dataFile != "" {
		if err := seed(db, log, rootParams.dataFile); err != nil {
			return nil, nil, err
		}
	}
	return db, log, nil
}

// loadConfig reads a table-definition document from path, or from stdin
// when path is "-".
func loadConfig(path string) (*config.DatabaseConfig, error) {
	if path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return config.Parse(raw)
	}
	return config.Load(path)
}

// seed batch-writes the items in path into their tables. The file is a
// JSON object mapping table names to lists of items in tagged form.
func seed(db *database.Database, log *logging.Logger, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var byTable map[string][]json.RawMessage
	if err := json.Unmarshal(raw, &byTable); err != nil {
		return fmt.Errorf("parsing seed data %q: %w", path, err)
	}
	for name, rawItems := range byTable {
		tbl, ok := db.Table(name)
		if !ok {
			return fmt.Errorf("seed data references unknown table %q", name)
		}
		ops := make([]batch.WriteOp, 0, len(rawItems))
		for _, ri := range rawItems {
			item, err := attr.UnmarshalJSONItem(ri)
			if err != nil {
				return fmt.Errorf("seed data for table %q: %w", name, err)
			}
			ops = append(ops, batch.PutOp(table.PutRequest{Item: item}))
		}
		for _, chunk := range batch.IntoChunks(ops, batch.MaxBatchWriteItems) {
			result := batch.BatchWrite(tbl, chunk)
			for _, failed := range result.Unprocessed {
				return fmt.Errorf("seeding table %q: %w", name, failed.Err)
			}
		}
		log.WithFields(logging.Fields{"table": name, "items": len(rawItems)}).Debug("seeded table")
	}
	return nil
}

// lookupTable resolves a table name argument.
func lookupTable(db *database.Database, name string) (*table.Table, error) {
	tbl, ok := db.Table(name)
	if !ok {
		return nil, fmt.Errorf("unknown table %q (tables: %v)", name, db.TableNames())
	}
	return tbl, nil
}

// parseKeyArg parses a key given as a JSON object of key attributes
// (e.g. {"id": {"S": "doc1"}}) against tbl's schema.
func parseKeyArg(tbl *table.Table, arg string) (keys.PrimaryKey, error) {
	item, err := attr.UnmarshalJSONItem([]byte(arg))
	if err != nil {
		return keys.PrimaryKey{}, err
	}
	return keys.Extract(item, tbl.Schema)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// itemJSON converts an item to its tagged JSON form for output, or nil
// for a nil item.
func itemJSON(item attr.M) (json.RawMessage, error) {
	if item == nil {
		return nil, nil
	}
	raw, err := attr.MarshalJSONItem(item)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// itemsJSON converts a result list of items for output.
func itemsJSON(items []attr.M) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		raw, err := itemJSON(item)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}
