package warehouse

import (
	"fmt"
	"strings"
)

// BuildDropTableSQL returns the statement removing any previous run's table.
func BuildDropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteFQN(table))
}

// BuildCreateTableSQL returns a portable CREATE TABLE statement for the
// inferred definition. Identifiers are double-quoted; both backends accept
// the emitted types.
func BuildCreateTableSQL(t TableDef) (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("warehouse ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("warehouse ddl: at least one column is required")
	}
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cn := strings.TrimSpace(c.Name)
		if cn == "" {
			return "", fmt.Errorf("warehouse ddl: column with empty name in table %s", name)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("warehouse ddl: column %s missing SQLType", cn)
		}
		cols = append(cols, quoteIdent(cn)+" "+typ)
	}
	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n);",
		quoteFQN(name),
		strings.Join(cols, ",\n  "),
	), nil
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func quoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quoteIdent(p))
	}
	return strings.Join(out, ".")
}
