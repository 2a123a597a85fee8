// Package migrations embeds the SQL migrations of the exchange journal.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
