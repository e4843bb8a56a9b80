package static

import "embed"

// FS exposes storefront static assets for HTTP serving.
//
//go:embed *.css
var FS embed.FS
