// Package migrations embeds the SQL schema of the key-value store backends.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
