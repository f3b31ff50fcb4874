// Package query implements the query command.
package query

import (
	"context"
	"fmt"
	"os"

	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/output"
)

// Command runs SQL queries against the matchup database.
type Command struct {
	SQL string `arg:"" help:"SQL query to execute (e.g. \"SELECT * FROM matchups WHERE champion = 'ashe'\")."`
}

// Run executes the query command.
func (c *Command) Run(db *cache.DB) error {
	ctx := context.Background()
	store, err := db.Store(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	rows, err := store.DB().QueryContext(ctx, c.SQL)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Nothing to do with error on program exit.

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("get columns: %w", err)
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var out [][]string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}

		strs := make([]string, len(cols))
		for i, v := range values {
			switch v := v.(type) {
			case nil:
				strs[i] = ""
			case []byte:
				strs[i] = string(v)
			default:
				strs[i] = fmt.Sprintf("%v", v)
			}
		}
		out = append(out, strs)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}

	return output.Table(os.Stdout, cols, out)
}
