package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Freeeeeet/pesopolis/internal/config"
	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// OpenDatabase открывает базу согласно конфигурации: sqlite при IS_TEST, иначе postgres
func OpenDatabase(ctx context.Context, cfg *config.Config) (*base.Database, error) {
	if cfg.IsTest {
		return OpenSQLite(ctx, cfg.TestDSN)
	}
	return OpenPostgres(ctx, cfg.PostgresDSN())
}

// OpenPostgres открывает пул pgx и отдаёт его как *sql.DB
func OpenPostgres(ctx context.Context, dsn string) (*base.Database, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	database := base.NewDatabase(stdlib.OpenDBFromPool(pool), base.DialectPostgres)
	database.OnClose(pool.Close)
	return database, nil
}

// OpenSQLite открывает облегчённую базу sqlite с включёнными внешними ключами.
// Соединение одно: in-memory база живёт в рамках соединения.
func OpenSQLite(ctx context.Context, dsn string) (*base.Database, error) {
	if !strings.Contains(dsn, "_foreign_keys") && !strings.Contains(dsn, "_fk") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return base.NewDatabase(db, base.DialectSQLite), nil
}
