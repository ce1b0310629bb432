package version

// Build metadata. BuildDate and GoVersion are set via -ldflags at build time.
var (
	AppName     = "gatebot"
	AppFullName = "Gatebot chat command server"
	BuildDate   = "unknown"
	GoVersion   = "unknown"
)
