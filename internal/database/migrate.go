package database

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

type dialect struct {
	name string // goose dialect
	dir  string // directory inside migrationsFS
}

var (
	dialectSQLite   = dialect{name: "sqlite3", dir: "migrations/sqlite"}
	dialectPostgres = dialect{name: "postgres", dir: "migrations/postgres"}
)

// goose keeps its dialect and filesystem in package globals.
var migrateMu sync.Mutex

func migrate(ctx context.Context, conn *sql.DB, d dialect) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(d.name); err != nil {
		return err
	}
	return goose.UpContext(ctx, conn, d.dir)
}
