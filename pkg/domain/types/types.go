package types

// Version is the application version, overwritten at release build time via
// -ldflags "-X github.com/cpimport/cpimport/pkg/domain/types.Version=..."
var Version = "v0.1.0"

// AppName is the CLI binary name
const AppName = "cpimport"
