package riot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"

	"github.com/negz/counterpick/internal/matchup"
)

// maxLine is the longest match document a MatchFile accepts.
const maxLine = 4 * 1024 * 1024

// A MatchFile is a feed of match documents read from JSON lines, one match
// API document per line. It lets previously downloaded matches be ingested
// without calling the API.
type MatchFile struct {
	path string
	log  *slog.Logger
}

// NewMatchFile returns a feed that reads the file at path.
func NewMatchFile(path string, log *slog.Logger) *MatchFile {
	return &MatchFile{path: path, log: log}
}

// Walk calls visit for every match in the file. Lines that aren't valid JSON
// are logged and skipped.
func (f *MatchFile) Walk(ctx context.Context, visit func(ctx context.Context, id string, m matchup.Match) error) error {
	file, err := os.Open(f.path) //nolint:gosec // Path is supplied by the user.
	if err != nil {
		return fmt.Errorf("open match file: %w", err)
	}
	defer file.Close() //nolint:errcheck // Read-only file.

	return DecodeMatches(ctx, file, f.log, visit)
}

// DecodeMatches reads JSON lines match documents from r, calling visit for
// each. Blank lines are ignored.
func DecodeMatches(ctx context.Context, r io.Reader, log *slog.Logger, visit func(ctx context.Context, id string, m matchup.Match) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}

		var mr MatchResponse
		if err := json.Unmarshal(b, &mr); err != nil {
			log.Warn("Skipping undecodable match", "line", line, "error", err)
			continue
		}
		m := mr.ToMatch()
		if m.ID == "" {
			log.Warn("Skipping match with no id", "line", line)
			continue
		}
		if err := visit(ctx, m.ID, m); err != nil {
			return fmt.Errorf("visit match %s: %w", m.ID, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read match file: %w", err)
	}
	return nil
}
