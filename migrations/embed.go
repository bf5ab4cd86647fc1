// Package migrations embeds SQL migration files into the binary, so
// wxcore can migrate its archive without the SQL files present on the
// filesystem.
package migrations

import (
	"embed"

	"github.com/nbwx/wxcore/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
