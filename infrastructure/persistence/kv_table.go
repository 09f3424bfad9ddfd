package persistence

import (
	"fmt"
	"regexp"
)

const DefaultKeyValueTable = "kv_store"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// tableName falls back to the default table and rejects anything that is not a plain
// identifier, since the name is interpolated into DDL and queries.
func tableName(name string) (string, error) {
	if name == "" {
		return DefaultKeyValueTable, nil
	}
	if !identifier.MatchString(name) {
		return "", fmt.Errorf("invalid key-value table name %q", name)
	}
	return name, nil
}
