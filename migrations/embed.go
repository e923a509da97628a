// Package migrations embeds the SQL schema for both supported databases.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Driver names accepted by Source
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Source returns the migration files for a driver
func Source(driver string) (fs.FS, error) {
	switch driver {
	case Postgres, SQLite:
		return fs.Sub(files, driver)
	}
	return nil, fmt.Errorf("unknown migration driver %q", driver)
}
