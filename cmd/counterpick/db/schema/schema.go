// Package schema implements the schema command.
package schema

import (
	"fmt"
	"strings"

	"github.com/negz/counterpick/internal/db"
)

// Command prints the matchup database schema.
type Command struct {
	Tables []string `arg:"" help:"Only print these tables and their indexes (e.g. matchups, global_winrates)." optional:""`
}

// Run executes the schema command.
func (c *Command) Run() error {
	out, err := Tables(db.Schema(), c.Tables...)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// Tables returns the documented CREATE TABLE statement of each named table,
// followed by the table's indexes. With no tables it returns the whole schema.
func Tables(schema string, tables ...string) (string, error) {
	if len(tables) == 0 {
		return schema, nil
	}

	blocks := strings.Split(strings.TrimSpace(schema), "\n\n")
	b := &strings.Builder{}
	for _, t := range tables {
		found := false
		for _, block := range blocks {
			if strings.Contains(block, "CREATE TABLE IF NOT EXISTS "+t+" (") {
				b.WriteString(block + "\n")
				found = true
			}
		}
		if !found {
			return "", fmt.Errorf("unknown table %q", t)
		}
		for _, line := range strings.Split(schema, "\n") {
			if strings.HasPrefix(line, "CREATE INDEX") && strings.Contains(line, " ON "+t+"(") {
				b.WriteString(line + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
