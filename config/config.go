// Package config loads table-definition files describing the tables
// and secondary indexes a database should create on startup. Files may
// be YAML or JSON; viper handles both. Environment variables are not
// consulted.
package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pradoz/nosquealdb/keys"
)

// AttrDef names one key attribute and its type in the config file's
// vocabulary ("S", "N", "B").
type AttrDef struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
}

// ToKeysAttrType converts the config file's "S"/"N"/"B" type name into
// a keys.AttrType.
func (a AttrDef) ToKeysAttrType() (keys.AttrType, error) {
	switch strings.ToUpper(a.Type) {
	case "S":
		return keys.TypeS, nil
	case "N":
		return keys.TypeN, nil
	case "B":
		return keys.TypeB, nil
	default:
		return 0, fmt.Errorf("config: attribute %q has unknown type %q", a.Name, a.Type)
	}
}

// IndexDef describes one secondary index attached to a table.
type IndexDef struct {
	Name       string   `mapstructure:"name"`
	Kind       string   `mapstructure:"kind"` // "gsi" or "lsi"
	Partition  *AttrDef `mapstructure:"partition"`
	Sort       *AttrDef `mapstructure:"sort"`
	Projection string   `mapstructure:"projection"` // "all", "keys_only", or "include"
	Include    []string `mapstructure:"include"`
}

// TableDef describes one table and its secondary indexes.
type TableDef struct {
	Name      string     `mapstructure:"name"`
	Partition AttrDef    `mapstructure:"partition"`
	Sort      *AttrDef   `mapstructure:"sort"`
	Indexes   []IndexDef `mapstructure:"indexes"`
}

// DatabaseConfig is the top-level shape of a table-definition file.
type DatabaseConfig struct {
	Tables []TableDef `mapstructure:"tables"`
}

// Schema converts t's partition/sort definitions into a keys.Schema.
func (t TableDef) Schema() (keys.Schema, error) {
	pkType, err := t.Partition.ToKeysAttrType()
	if err != nil {
		return keys.Schema{}, err
	}
	schema := keys.NewSchema(t.Partition.Name, pkType)
	if t.Sort != nil {
		skType, err := t.Sort.ToKeysAttrType()
		if err != nil {
			return keys.Schema{}, err
		}
		schema = schema.WithSort(t.Sort.Name, skType)
	}
	return schema, nil
}

// Load reads a table-definition file (YAML or JSON, detected from its
// extension) from path.
func Load(path string) (*DatabaseConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config %q", path)
	}
	var cfg DatabaseConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %q", path)
	}
	return &cfg, nil
}

// Parse reads a table-definition document from raw bytes, for callers
// holding the content rather than a path (stdin, tests). YAML is a
// superset of JSON, so one parser covers both encodings.
func Parse(raw []byte) (*DatabaseConfig, error) {
	var cfg DatabaseConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	return &cfg, nil
}
