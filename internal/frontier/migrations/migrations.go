// Package migrations embeds the goose migration set for the
// url_frontier table, mirroring the embed-FS pattern used for
// postgres-backed stores across the example pack.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
