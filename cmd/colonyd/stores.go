package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"hivemind/internal/adapter/repo/memory"
	gormrepo "hivemind/internal/adapter/repo/gorm"
	sqliterepo "hivemind/internal/adapter/repo/sqlite"
	"hivemind/internal/app/ports"
)

type stores struct {
	kind     string
	tx       ports.TxManager
	colonies ports.ColonyRepository
	agents   ports.AgentRepository
	markers  ports.MarkerRepository
	close    func() error
}

// openStores picks the record store from the environment: HIVEMIND_DB_DSN
// selects postgres, HIVEMIND_SQLITE_PATH an sqlite file, otherwise memory.
func openStores(ctx context.Context, migrations string, log logrus.FieldLogger) (stores, error) {
	if dsn := strings.TrimSpace(os.Getenv("HIVEMIND_DB_DSN")); dsn != "" {
		db, err := gormrepo.OpenPostgres(dsn)
		if err != nil {
			return stores{}, fmt.Errorf("open postgres: %w", err)
		}
		if migrations != "" {
			applied, err := gormrepo.ApplyMigrations(ctx, db, migrations)
			if err != nil {
				_ = gormrepo.Close(db)
				return stores{}, fmt.Errorf("apply migrations: %w", err)
			}
			if len(applied) > 0 {
				log.WithField("versions", applied).Info("migrations applied")
			}
		}
		log.Info("using postgres record store")
		return stores{
			kind:     "postgres",
			tx:       gormrepo.NewTxManager(db),
			colonies: gormrepo.NewColonyRepo(db),
			agents:   gormrepo.NewAgentRepo(db),
			markers:  gormrepo.NewMarkerRepo(db),
			close:    func() error { return gormrepo.Close(db) },
		}, nil
	}
	if path := strings.TrimSpace(os.Getenv("HIVEMIND_SQLITE_PATH")); path != "" {
		db, err := sqliterepo.OpenSQLite(path)
		if err != nil {
			return stores{}, err
		}
		log.WithField("path", path).Info("using sqlite record store")
		return stores{
			kind:     "sqlite",
			tx:       sqliterepo.NewTxManager(db),
			colonies: sqliterepo.NewColonyRepo(db),
			agents:   sqliterepo.NewAgentRepo(db),
			markers:  sqliterepo.NewMarkerRepo(db),
			close:    db.Close,
		}, nil
	}

	store := memory.NewStore()
	log.Info("using in-memory record store")
	return stores{
		kind:     "memory",
		tx:       memory.NewTxManager(store),
		colonies: memory.NewColonyRepo(store),
		agents:   memory.NewAgentRepo(store),
		markers:  memory.NewMarkerRepo(store),
		close:    func() error { return nil },
	}, nil
}
