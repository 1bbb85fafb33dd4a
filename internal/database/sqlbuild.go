package database

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/jackc/pgx/v5"
)

// dialect describes how an adapter spells bind parameters and the
// updated_at assignment of an UPDATE.
type dialect struct {
	// placeholder renders the n-th (1-based) bind parameter.
	placeholder func(n int) string
	// stamp renders the right-hand side of "updated_at = ..." given the
	// placeholder holding the new timestamp.
	stamp func(param string) string
}

// postgresDialect keeps updated_at strictly increasing inside the statement.
var postgresDialect = dialect{
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	stamp: func(param string) string {
		return "GREATEST(" + param + ", " + quoteIdentifier("updated_at") + " + interval '1 microsecond')"
	},
}

// sqliteDialect binds the timestamp as is; SQLite stores timestamps as text,
// so the caller clamps it with core.NextUpdatedAt before binding.
var sqliteDialect = dialect{
	placeholder: func(int) string { return "?" },
	stamp:       func(param string) string { return param },
}

// buildUpdate renders "UPDATE table SET ..., updated_at = ? WHERE id = ?"
// for the supplied assignments. Column names come from the patch types, never
// from user input, but are quoted regardless.
func buildUpdate(table string, set []core.Assignment, updatedAt, id any, d dialect) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(set)+2)

	b.WriteString("UPDATE ")
	b.WriteString(quoteIdentifier(table))
	b.WriteString(" SET ")

	for _, a := range set {
		args = append(args, a.Value)
		b.WriteString(quoteIdentifier(a.Column))
		b.WriteString(" = ")
		b.WriteString(d.placeholder(len(args)))
		b.WriteString(", ")
	}

	args = append(args, updatedAt)
	b.WriteString(quoteIdentifier("updated_at"))
	b.WriteString(" = ")
	b.WriteString(d.stamp(d.placeholder(len(args))))

	args = append(args, id)
	b.WriteString(" WHERE id = ")
	b.WriteString(d.placeholder(len(args)))

	return b.String(), args
}

func quoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
