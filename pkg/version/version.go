package version

import "runtime/debug"

// Build variables to be set via ldflags during compilation
// For example:
// -X 'github.com/compozy/licensegen/pkg/version.Version=v1.0.0'
// -X 'github.com/compozy/licensegen/pkg/version.CommitHash=abc123'
// -X 'github.com/compozy/licensegen/pkg/version.BuildDate=2024-01-01T00:00:00Z'
var (
	// Version is the semantic version of the binary (e.g., "1.0.0")
	Version = "unknown"
	// CommitHash is the git commit hash used to build the binary
	CommitHash = "unknown"
	// BuildDate is the timestamp when the binary was built (RFC3339 format)
	BuildDate = "unknown"
)

// Info returns build information in a structured format
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

// Get returns the current build information. Without ldflags the module
// version recorded by `go install` is used when there is one.
func Get() Info {
	info := Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
	if info.Version == "unknown" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			info.Version = moduleVersion(bi, info.Version)
		}
	}
	return info
}

func moduleVersion(bi *debug.BuildInfo, fallback string) string {
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	return fallback
}
