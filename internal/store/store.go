package store

import (
	"context"
	"fmt"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/inventory"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/profile"
	"github.com/ariefcatur/go-storefront/internal/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

type InventoryStore interface {
	inventory.Store
	Put(ctx context.Context, productID int64, qty int) error
}

// Stores bundles the repositories of one backend selected by STORE_DRIVER.
type Stores struct {
	Inventory InventoryStore
	Cart      cart.Store
	Profile   profile.Store

	pool *pgxpool.Pool
	db   *sqlx.DB
}

func Open(ctx context.Context, cfg config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Inventory: &inventory.Repo{DB: pool},
			Cart:      &cart.Repo{DB: pool},
			Profile:   &profile.Repo{DB: pool},
			pool:      pool,
		}, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Inventory: &sqlite.InventoryRepo{DB: db},
			Cart:      &sqlite.CartRepo{DB: db},
			Profile:   &sqlite.ProfileRepo{DB: db},
			db:        db,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (s *Stores) Migrate(ctx context.Context) error {
	if s.pool != nil {
		return postgres.Migrate(ctx, s.pool)
	}
	return sqlite.Migrate(s.db)
}

func (s *Stores) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}
