package base

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect диалект хранилища
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// Querier общий интерфейс *sql.DB и *sql.Tx.
// Через него в операции передаётся единица работы.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Database пул соединений и его диалект
type Database struct {
	db      *sql.DB
	dialect Dialect
	onClose []func()
}

// NewDatabase оборачивает открытый *sql.DB
func NewDatabase(db *sql.DB, dialect Dialect) *Database {
	return &Database{db: db, dialect: dialect}
}

// DB возвращает пул соединений
func (d *Database) DB() *sql.DB {
	return d.db
}

// Dialect возвращает диалект хранилища
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// InTx выполняет fn в одной транзакции.
// Коммит происходит только если fn завершилась без ошибки, иначе откат.
func (d *Database) InTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// OnClose регистрирует освобождение ресурса после закрытия пула
func (d *Database) OnClose(fn func()) {
	d.onClose = append(d.onClose, fn)
}

// Close закрывает пул
func (d *Database) Close() error {
	err := d.db.Close()
	for _, fn := range d.onClose {
		fn()
	}
	return err
}

// IsNotFound проверяет является ли ошибка "строка не найдена"
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
