// Package appfs embeds the static files shipped inside the binary.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
