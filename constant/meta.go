// Package constant holds application-wide identifiers.
package constant

const (
	// Vidtrack names the binary, the config file and the environment prefix.
	Vidtrack = "vidtrack"

	Version = "0.1.0"
)

// Set at build time with -ldflags "-X".
var (
	BuiltAt  string
	BuiltBy  string
	Revision string
)
