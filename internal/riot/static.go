package riot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/negz/counterpick/internal/matchup"
)

// A Champion in the static champion data.
type Champion struct {
	ID   string // Normalized, see matchup.ChampionID.
	Name string
}

type championData struct {
	Version string `json:"version"`
	Data    map[string]struct {
		ID   string `json:"id"`
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"data"`
}

// StaticClient reads versioned static game data. It needs no API key.
type StaticClient struct {
	config
}

// NewStaticClient returns a static data client.
func NewStaticClient(opts ...Option) *StaticClient {
	return &StaticClient{config: newConfig(opts)}
}

// LatestVersion returns the current game version, e.g. "14.23.1".
func (c *StaticClient) LatestVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := c.get(ctx, c.staticURL+"/api/versions.json", "", &versions); err != nil {
		return "", fmt.Errorf("get versions: %w", err)
	}
	if len(versions) == 0 {
		return "", errors.New("no versions published")
	}
	return versions[0], nil
}

// Champions returns the roster for a game version, sorted by id.
func (c *StaticClient) Champions(ctx context.Context, version string) ([]Champion, error) {
	u := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", c.staticURL, url.PathEscape(version))
	var d championData
	if err := c.get(ctx, u, "", &d); err != nil {
		return nil, fmt.Errorf("get champions for %s: %w", version, err)
	}

	out := make([]Champion, 0, len(d.Data))
	for key, ch := range d.Data {
		id := ch.ID
		if id == "" {
			id = key
		}
		out = append(out, Champion{ID: matchup.ChampionID(id), Name: ch.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
