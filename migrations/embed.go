// Package migrations embeds the SQL schema files applied by "records-api migrate up".
package migrations

import "embed"

// FS holds every numbered .sql file in this directory.
//
//go:embed *.sql
var FS embed.FS
