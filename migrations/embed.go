// Package migrations holds the goose SQL migrations for the console database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
