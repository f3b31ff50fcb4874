package riot

import (
	"github.com/negz/counterpick/internal/matchup"
)

// A LeagueEntry is one ranked player on the ladder. Newer responses carry the
// player's PUUID directly, older ones only a summoner id.
type LeagueEntry struct {
	SummonerID string `json:"summonerId"`
	PUUID      string `json:"puuid"`
	Tier       string `json:"tier"`
	Rank       string `json:"rank"`
}

// LeagueList is an apex tier league.
type LeagueList struct {
	Tier    string        `json:"tier"`
	Entries []LeagueEntry `json:"entries"`
}

// Summoner is a summoner profile.
type Summoner struct {
	ID    string `json:"id"`
	PUUID string `json:"puuid"`
}

// MatchResponse is a match document from the match API.
type MatchResponse struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info MatchInfo `json:"info"`
}

// MatchInfo is the info section of a match document.
type MatchInfo struct {
	GameVersion  string        `json:"gameVersion"`
	QueueID      int           `json:"queueId"`
	Participants []Participant `json:"participants"`
	Teams        []Team        `json:"teams"`
}

// Participant is a player in a match.
type Participant struct {
	PUUID        string `json:"puuid"`
	ChampionName string `json:"championName"`
	TeamID       int    `json:"teamId"`
	TeamPosition string `json:"teamPosition"`
	Win          bool   `json:"win"`
}

// Team is one side of a match.
type Team struct {
	TeamID int  `json:"teamId"`
	Win    bool `json:"win"`
}

// ToMatch converts the document into an ingestable match. The winning team is
// taken from the teams section, falling back to any winning participant. It
// is zero if no team won, which makes the match malformed.
func (r *MatchResponse) ToMatch() matchup.Match {
	m := matchup.Match{
		ID:           r.Metadata.MatchID,
		Participants: make([]matchup.Participant, 0, len(r.Info.Participants)),
	}
	for _, p := range r.Info.Participants {
		m.Participants = append(m.Participants, matchup.Participant{Champion: p.ChampionName, Team: p.TeamID})
	}
	for _, t := range r.Info.Teams {
		if t.Win {
			m.WinningTeam = t.TeamID
			return m
		}
	}
	for _, p := range r.Info.Participants {
		if p.Win {
			m.WinningTeam = p.TeamID
			return m
		}
	}
	return m
}
