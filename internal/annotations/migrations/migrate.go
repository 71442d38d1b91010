// Package migrations holds the annotation store schema.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate brings db up to the latest schema.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&zapLogger{})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.Up(db, ".")
}

type zapLogger struct{}

func (l *zapLogger) Printf(format string, v ...interface{}) {
	zap.L().Debug(fmt.Sprintf(format, v...))
}

func (l *zapLogger) Fatalf(format string, v ...interface{}) {
	zap.L().Error(fmt.Sprintf(format, v...))
}
