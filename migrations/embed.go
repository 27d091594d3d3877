// Package migrations holds the goose-formatted SQL migrations for the
// postgres store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
