package repository

import (
	"context"
	"fmt"

	"github.com/unclebandit/contacts-backend/internal/config"
	"github.com/unclebandit/contacts-backend/internal/db"
)

// Open returns the repository selected by cfg.StoreDriver and a function
// releasing its resources.
func Open(ctx context.Context, cfg config.Config) (ContactRepositoryInterface, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverJSON:
		repo, err := OpenJSONFile(cfg.DBFile)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() error { return nil }, nil
	case config.DriverPostgres, config.DriverSQLite:
		dsn := cfg.SQLitePath
		if cfg.StoreDriver == config.DriverPostgres {
			dsn = cfg.DB.DSN()
		}
		conn, err := db.Open(ctx, cfg.StoreDriver, dsn)
		if err != nil {
			return nil, nil, err
		}
		return &SQLRepository{DB: conn, Driver: cfg.StoreDriver}, conn.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
