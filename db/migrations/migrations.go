// Package migrations embeds the schema for each supported SQL dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

const (
	SQLiteDir   = "sqlite"
	PostgresDir = "postgres"
)
