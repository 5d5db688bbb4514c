package config

// Version is the babelex binary version.
// Set at build time via: -ldflags "-X github.com/lexiconlab/babelex/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
