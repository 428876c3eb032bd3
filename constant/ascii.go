package constant

import _ "embed"

// AsciiArtLogo is the banner shown in the root help.
//
//go:embed ascii.txt
var AsciiArtLogo string
