// Package version holds the build version, set with -ldflags at release time.
package version

// Version is the client version. Release builds override it with
// -ldflags "-X github.com/sergeknystautas/commitdetective/internal/version.Version=1.2.3".
var Version = "dev"
