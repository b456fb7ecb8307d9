package version

var (
	Version   string = "dev"
	GitCommit string = "unknown"
	BuildTime string = "unknown"
)

func GetVersion() string {
	return Version
}

func GetFullVersion() string {
	return Version + " (commit: " + GitCommit + ", built: " + BuildTime + ")"
}

// UserAgent identifies the proxy to the analytics provider.
func UserAgent() string {
	return "analytics-proxy/" + Version
}
