// Package testutil общие помощники для тестов с базой
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/Freeeeeet/pesopolis/internal/app"
	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// NewDatabase открывает отдельную in-memory sqlite базу с применёнными миграциями
func NewDatabase(t testing.TB) *base.Database {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := app.OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	migrator, err := app.NewMigrator(database, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Run(ctx))

	return database
}

// Exec выполняет SQL для подготовки данных
func Exec(t testing.TB, database *base.Database, query string, args ...any) {
	t.Helper()
	_, err := database.DB().ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}
