package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Columns maps logical fields to the column names used by a source.
type Columns map[Field]string

func DefaultColumns() Columns {
	c := make(Columns, len(AllFields))
	for _, f := range AllFields {
		c[f] = string(f)
	}
	return c
}

// LoadColumns reads field overrides from a YAML, TOML or JSON file and merges them
// over the defaults. An empty path yields the defaults.
func LoadColumns(path string) (Columns, error) {
	cols := DefaultColumns()
	if strings.TrimSpace(path) == "" {
		return cols, nil
	}

	raw := map[string]string{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".json":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported column mapping format: %s", ext)
	}

	if err := cols.merge(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cols, nil
}

func (c Columns) merge(raw map[string]string) error {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f := Field(strings.TrimSpace(name))
		if !f.valid() {
			return fmt.Errorf("unknown field: %s", name)
		}
		column := strings.TrimSpace(raw[name])
		if column == "" {
			return fmt.Errorf("field %s: empty column name", name)
		}
		c[f] = column
	}
	return nil
}

// Index resolves a source header to column positions per field. Header
// matching ignores case and surrounding whitespace.
func (c Columns) Index(header []string) map[Field]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := byName[key]; !seen {
			byName[key] = i
		}
	}
	idx := make(map[Field]int, len(c))
	for f, column := range c {
		if i, ok := byName[strings.ToLower(column)]; ok {
			idx[f] = i
		}
	}
	return idx
}

// RequireFields reports the first required field missing from idx.
func (c Columns) RequireFields(idx map[Field]int, required []Field) error {
	for _, f := range required {
		if _, ok := idx[f]; !ok {
			return fmt.Errorf("missing required header column: %s (field %s)", c[f], f)
		}
	}
	return nil
}

// RowFromRecord builds a Row from a positional record.
func RowFromRecord(idx map[Field]int, rec []string) Row {
	row := make(Row, len(idx))
	for f, i := range idx {
		if i < len(rec) {
			row[f] = rec[i]
		}
	}
	return row
}

// BlankRecord reports whether every cell of rec is empty.
func BlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
