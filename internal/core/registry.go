package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// TableInfo identifies an exportable dataset.
type TableInfo struct {
	Key   string // URL segment and file name prefix, e.g. "airlines"
	Label string // catalog key of the human-readable name
}

// ColumnSpec describes one export column. Header is a catalog key that the
// Formatter translates. Quoted columns are always wrapped in double quotes.
type ColumnSpec struct {
	Header string
	Quoted bool
}

// RowsFunc reads every record of a dataset and renders each as a row of
// formatted cells in column order.
type RowsFunc func(ctx context.Context, store Store, f *Formatter) ([][]string, error)

// TableDefinition binds a dataset to its export layout.
type TableDefinition struct {
	Info    TableInfo
	Columns []ColumnSpec
	Rows    RowsFunc
}

var (
	registry   = make(map[string]TableDefinition)
	registryMu sync.RWMutex
)

// Register adds a table definition to the registry.
// Panics if a table with the same key is already registered or the
// definition cannot produce rows.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}
	if def.Rows == nil || len(def.Columns) == 0 {
		panic(fmt.Sprintf("table %s: columns and rows are required", def.Info.Key))
	}

	registry[def.Info.Key] = def
}

// Get returns a table definition by key.
// Returns false if not found.
func Get(key string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered table definitions sorted by key.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
