package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/stock-manager/internal/config"
	"go.opentelemetry.io/otel/attribute"

	_ "github.com/lib/pq"
)

type Repositories struct {
	DB         *sql.DB
	Products   ProductRepository
	Categories CategoryRepository
	Ledger     LedgerRepository
	Analytics  AnalyticsRepository
}

// OpenPostgres opens a traced connection pool and verifies it is reachable.
func OpenPostgres(ctx context.Context, cfg *config.Database) (*sql.DB, error) {
	db, err := otelsql.Open("postgres", cfg.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("✅ Successfully connected to Postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Name))

	return db, nil
}

func New(db *sql.DB) *Repositories {
	return &Repositories{
		DB:         db,
		Products:   NewProductRepo(db),
		Categories: NewCategoryRepo(db),
		Ledger:     NewLedgerRepo(db),
		Analytics:  NewAnalyticsRepo(db),
	}
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
