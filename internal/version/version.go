// Package version holds the counterpick build version.
package version

// Version is the build version. Release builds set it with
// -ldflags "-X github.com/negz/counterpick/internal/version.Version=...".
var Version = "v0.0.0-dev" //nolint:gochecknoglobals // Set by ldflags at build time.

// UserAgent is sent with every Riot API request.
func UserAgent() string {
	return "counterpick/" + Version
}
