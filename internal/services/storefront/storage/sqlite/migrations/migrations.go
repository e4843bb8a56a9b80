// Package migrations embeds the storefront cache schema.
package migrations

import "embed"

// FS holds the cache store migrations in apply order.
//
//go:embed *.sql
var FS embed.FS
