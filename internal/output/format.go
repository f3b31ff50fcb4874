package output

import (
	"fmt"
	"math"
	"strconv"

	"github.com/negz/counterpick/internal/db"
	"github.com/negz/counterpick/internal/strategy/recommend"
)

// FormatWinRate formats a win rate between zero and one as a percentage with
// two decimal places.
func FormatWinRate(r float64) string {
	return fmt.Sprintf("%.2f%%", r*100)
}

// FormatDelta formats the difference between two win rates as a signed
// percentage with two decimal places. A difference that rounds to zero is
// formatted as "±0.00%".
func FormatDelta(d float64) string {
	pct := math.Round(d*10000) / 100
	switch {
	case pct > 0:
		return fmt.Sprintf("+%.2f%%", pct)
	case pct < 0:
		return fmt.Sprintf("%.2f%%", pct)
	default:
		return "±0.00%"
	}
}

// ChampionName returns the champion's display name, or its ID if it has none.
func ChampionName(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id
}

// Names returns champion display names keyed by ID.
func Names(cs []db.Champion) map[string]string {
	out := make(map[string]string, len(cs))
	for _, c := range cs {
		out[c.ID] = c.Name
	}
	return out
}

// PickRows formats recommendations as table rows. The delta column is omitted
// when showDelta is false, for queries that don't normalize.
func PickRows(picks []recommend.Pick, names map[string]string, showDelta bool) [][]string {
	rows := make([][]string, 0, len(picks))
	for i, p := range picks {
		row := []string{
			strconv.Itoa(i + 1),
			ChampionName(names, p.Champion),
			FormatWinRate(p.WinRate),
			strconv.Itoa(p.Games),
		}
		if showDelta {
			global := "-"
			if p.HasGlobal {
				global = FormatWinRate(p.GlobalWinRate)
			}
			row = append(row, global, FormatDelta(p.Score))
		}
		rows = append(rows, row)
	}
	return rows
}

// BaselineRows formats global win rates as table rows.
func BaselineRows(bs []recommend.Baseline, names map[string]string) [][]string {
	rows := make([][]string, 0, len(bs))
	for i, b := range bs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ChampionName(names, b.Champion),
			FormatWinRate(b.WinRate),
			strconv.Itoa(b.Games),
		})
	}
	return rows
}
