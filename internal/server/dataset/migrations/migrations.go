// Package migrations embeds the goose migrations for the SQL dataset tables.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
