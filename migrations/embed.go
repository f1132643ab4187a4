// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API at server bootstrap.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
