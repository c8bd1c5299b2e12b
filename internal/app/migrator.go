package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pesopolis/internal/migrations"
	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrator обёртка над goose
type Migrator struct {
	database *base.Database
	dir      string
	logger   *zap.Logger
}

// NewMigrator создаёт мигратор для диалекта базы
func NewMigrator(database *base.Database, logger *zap.Logger) (*Migrator, error) {
	if err := goose.SetDialect(string(database.Dialect())); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(zap.NewStdLog(logger))

	return &Migrator{
		database: database,
		dir:      string(database.Dialect()),
		logger:   logger,
	}, nil
}

// Run применяет все pending миграции
func (mg *Migrator) Run(ctx context.Context) error {
	mg.logger.Info("Applying database migrations", zap.String("dialect", mg.dir))

	if err := goose.UpContext(ctx, mg.database.DB(), mg.dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	mg.logger.Info("Migrations applied successfully")
	return nil
}

// Version показывает текущую версию миграций
func (mg *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, mg.database.DB())
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}
