// Package version holds build-time metadata injected via ldflags.
package version

// These variables are set at build time using -ldflags:
//
//	-X 'github.com/janekbaraniewski/synthload/internal/version.Version=...'
//	-X 'github.com/janekbaraniewski/synthload/internal/version.CommitHash=...'
//	-X 'github.com/janekbaraniewski/synthload/internal/version.BuildDate=...'
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Info is the machine-readable form reported by /healthz and `version -o json`.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit"`
	BuildDate  string `json:"build_date"`
}

func Current() Info {
	return Info{Version: Version, CommitHash: CommitHash, BuildDate: BuildDate}
}

// String returns a formatted version string.
func String() string {
	return Version + " (" + CommitHash + ") built " + BuildDate
}

// UserAgent identifies outgoing HTTP requests.
func UserAgent() string {
	return "synthload/" + Version
}
