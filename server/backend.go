package server

import (
	"context"
	"fmt"
	"time"

	"github.com/surafelx/portfolio26/config"
	"github.com/surafelx/portfolio26/db"
	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/store"
)

// OpenBackend returns the store selected by cfg.StoreDriver. The Mongo
// handle connects lazily; indexes are only created if the server answers
// at start-up.
func OpenBackend(ctx context.Context, cfg config.Config, log *logx.Logger) (*store.Backend, error) {
	log = logx.OrNop(log)
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("store ready", "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		return store.NewSQLiteBackend(sqlDB), nil
	case config.DriverMongo:
		conn := db.NewMongo(cfg.MongoURI, cfg.MongoDatabase)
		ictx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := conn.EnsureIndexes(ictx); err != nil {
			log.Warn("mongo not reachable at start-up, connecting on first request", "error", err)
		} else {
			log.Info("store ready", "driver", cfg.StoreDriver, "database", cfg.MongoDatabase)
		}
		return store.NewMongoBackend(conn), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
