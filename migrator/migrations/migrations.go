// Package migrations embeds the SQL schema of the snapshot store
package migrations

import "embed"

// FS holds the sql-migrate files
//
//go:embed *.sql
var FS embed.FS
