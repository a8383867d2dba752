package version

// Overridden at build time:
//
//	go build -ldflags "-X github.com/wwtatc/filesize/internal/version.Version=v1.2.0"
var (
	// Version is the released version of the CLI
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// BuildDate is when the binary was built
	BuildDate = "unknown"
)

// GetFullVersion returns detailed version information
func GetFullVersion() string {
	return "filesize " + Version + " (commit: " + Commit + ", built: " + BuildDate + ")"
}
