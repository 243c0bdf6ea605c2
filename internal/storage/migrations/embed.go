// Package migrations embeds the registry schema and applies it in file order.
package migrations

import "embed"

// Migration directories inside schemaFS, one per backend.
const (
	postgresDir   = "postgres"
	clickhouseDir = "clickhouse"
)

//go:embed postgres/*.sql clickhouse/*.sql
var schemaFS embed.FS
