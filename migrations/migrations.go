// Package migrations carries the postgres schema of the task board. Every
// file is idempotent and applied in name order on start-up.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
