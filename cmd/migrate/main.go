package main

import (
	"errors"
	"flag"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/internal/config"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

func main() {
	dir := flag.String("path", "migrations", "directory holding the migration files")
	down := flag.Bool("down", false, "roll back one step instead of applying all pending migrations")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)

	m, err := migrate.New("file://"+*dir, cfg.DB.DSN)
	if err != nil {
		appLogger.Fatal("cannot create migrate instance", err)
	}
	defer m.Close()

	if *down {
		err = m.Steps(-1)
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		appLogger.Fatal("migration failed", err)
	}

	version, dirty, _ := m.Version()
	appLogger.Info("Migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
}
