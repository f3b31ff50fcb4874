// Package matchup accumulates per-champion and per-matchup win/loss counts.
package matchup

// A Record counts games played and games won for one champion, either against
// one opposing champion or against every opponent combined.
type Record struct {
	Wins  int
	Games int
}

// AddGames adds n games to the record.
func (r *Record) AddGames(n int) {
	r.Games += n
}

// AddWins adds n wins to the record.
func (r *Record) AddWins(n int) {
	r.Wins += n
}

// Add folds another record into this one.
func (r *Record) Add(o Record) {
	r.Wins += o.Wins
	r.Games += o.Games
}

// UpdateWinRate records one played game, counting a win if won is true.
func (r *Record) UpdateWinRate(won bool) {
	r.Games++
	if won {
		r.Wins++
	}
}

// WinRate returns wins divided by games. A record with no games has a win
// rate of zero.
func (r Record) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}
