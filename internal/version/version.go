package version

// Overridden at build time via -ldflags "-X product-catalog/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
