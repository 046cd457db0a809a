package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending schema migrations using goose. The
// migration files are embedded in the binary, so deployments never depend
// on a migrations directory being present on disk.
func RunMigrations(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "migrations"))

	goose.SetBaseFS(migrationsFS)
	goose.SetTableName("schema_migrations")
	goose.SetLogger(&gooseSlogAdapter{logger: log})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	log.Info("schema migrations applied", slog.Int64("version", version))
	return nil
}

// gooseSlogAdapter routes goose's log output through slog so migration
// logs share the structured format of everything else.
type gooseSlogAdapter struct {
	logger *slog.Logger
}

var _ goose.Logger = (*gooseSlogAdapter)(nil)

func (l *gooseSlogAdapter) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *gooseSlogAdapter) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}
