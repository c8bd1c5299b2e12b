package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/pesopolis/internal/model"
	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ErrUnknownColumn колонка отсутствует в таблице
var ErrUnknownColumn = errors.New("unknown column")

// TableRepository обобщённый CRUD над одной таблицей.
// P указатель на структуру строки.
type TableRepository[T any, P interface {
	*T
	model.Entity
}] struct {
	table   string
	columns []string
	logger  *zap.Logger
}

func NewTableRepository[T any, P interface {
	*T
	model.Entity
}](logger *zap.Logger) *TableRepository[T, P] {
	var zero T
	entity := P(&zero)
	return &TableRepository[T, P]{
		table:   entity.Table(),
		columns: entity.Columns(),
		logger:  logger,
	}
}

// Table возвращает имя таблицы
func (r *TableRepository[T, P]) Table() string {
	return r.table
}

// HasColumn проверяет что колонка принадлежит таблице
func (r *TableRepository[T, P]) HasColumn(column string) bool {
	return column == "id" || lo.Contains(r.columns, column)
}

// Insert вставляет строку и возвращает назначенный хранилищем id
func (r *TableRepository[T, P]) Insert(ctx context.Context, q base.Querier, entity P) (int64, error) {
	placeholders := make([]string, len(r.columns))
	for i := range r.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		r.table, strings.Join(r.columns, ", "), strings.Join(placeholders, ", "),
	)

	var id int64
	if err := q.QueryRowContext(ctx, query, entity.Values()...).Scan(&id); err != nil {
		r.logger.Error("Failed to insert row",
			zap.String("table", r.table),
			zap.Error(err))
		return 0, fmt.Errorf("insert into %s: %w", r.table, base.Classify(err))
	}

	return id, nil
}

// GetByID получает строку по id. Возвращает sql.ErrNoRows если строки нет.
func (r *TableRepository[T, P]) GetByID(ctx context.Context, q base.Querier, id int64) (P, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.selectList(), r.table)

	entity := P(new(T))
	if err := q.QueryRowContext(ctx, query, id).Scan(entity.Targets()...); err != nil {
		return nil, fmt.Errorf("get %s by id: %w", r.table, err)
	}

	return entity, nil
}

// List получает строки, отфильтрованные по равенству колонок, в порядке id
func (r *TableRepository[T, P]) List(ctx context.Context, q base.Querier, filter map[string]any) ([]P, error) {
	keys := lo.Keys(filter)
	sort.Strings(keys)

	conditions := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		if !r.HasColumn(key) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.table, key)
		}
		value := filter[key]
		if value == nil {
			conditions = append(conditions, key+" IS NULL")
			continue
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", key, len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM %s", r.selectList(), r.table)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	entities := make([]P, 0)
	for rows.Next() {
		entity := P(new(T))
		if err := rows.Scan(entity.Targets()...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.table, err)
	}

	return entities, nil
}

// UpdateColumns записывает только перечисленные колонки строки entity.
// Возвращает количество затронутых строк.
func (r *TableRepository[T, P]) UpdateColumns(ctx context.Context, q base.Querier, entity P, columns []string) (int64, error) {
	if len(columns) == 0 {
		return 0, nil
	}

	values := entity.Values()
	assignments := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+1)
	for _, column := range columns {
		idx := lo.IndexOf(r.columns, column)
		if idx < 0 {
			return 0, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.table, column)
		}
		args = append(args, values[idx])
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	args = append(args, entity.PrimaryKey())

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		r.table, strings.Join(assignments, ", "), len(args),
	)

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", r.table, base.Classify(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", r.table, err)
	}
	return affected, nil
}

// Delete удаляет строку по id и возвращает количество удалённых строк
func (r *TableRepository[T, P]) Delete(ctx context.Context, q base.Querier, id int64) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table)

	result, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", r.table, base.Classify(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", r.table, err)
	}
	return affected, nil
}

func (r *TableRepository[T, P]) selectList() string {
	return "id, " + strings.Join(r.columns, ", ")
}
