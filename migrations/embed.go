// Package migrations embeds the SQL schema files applied at startup and by
// integration test containers.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
