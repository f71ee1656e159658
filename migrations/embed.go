// Package migrations carries the SQL schema migrations inside the binary
// so a deploy needs no migration files on disk.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
