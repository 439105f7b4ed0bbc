// Package migrations holds the versioned history schema.
package migrations

import "embed"

// FS holds the NNN_name.up.sql and .down.sql scripts.
//
//go:embed *.sql
var FS embed.FS
