package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Freeeeeet/pesopolis/internal/model"
	"github.com/Freeeeeet/pesopolis/internal/repository"
	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler единый контракт операций над одним видом сущностей.
// Все операции выполняются в переданной единице работы q.
type Handler interface {
	Kind() model.Kind
	Create(ctx context.Context, q base.Querier, payload json.RawMessage) (int64, error)
	Get(ctx context.Context, q base.Querier, filter map[string]any) ([]model.Entity, error)
	GetOne(ctx context.Context, q base.Querier, id int64) (model.Entity, error)
	Update(ctx context.Context, q base.Querier, id int64, payload json.RawMessage) (int64, error)
	Delete(ctx context.Context, q base.Querier, id int64) (int64, error)
}

type entityHandler[T any, P interface {
	*T
	model.Entity
}] struct {
	kind     model.Kind
	repo     *repository.TableRepository[T, P]
	defaults func() T
	validate *validator.Validate
	logger   *zap.Logger
}

func newEntityHandler[T any, P interface {
	*T
	model.Entity
}](kind model.Kind, defaults func() T, validate *validator.Validate, logger *zap.Logger) *entityHandler[T, P] {
	if defaults == nil {
		defaults = func() T {
			var zero T
			return zero
		}
	}
	return &entityHandler[T, P]{
		kind:     kind,
		repo:     repository.NewTableRepository[T, P](logger),
		defaults: defaults,
		validate: validate,
		logger:   logger,
	}
}

func (h *entityHandler[T, P]) Kind() model.Kind {
	return h.kind
}

func (h *entityHandler[T, P]) Create(ctx context.Context, q base.Querier, payload json.RawMessage) (int64, error) {
	fields, err := h.fields(payload)
	if err != nil {
		return 0, err
	}
	delete(fields, "id")

	value := h.defaults()
	entity := P(&value)
	if err := decodeFields(fields, entity); err != nil {
		return 0, err
	}

	if err := validationError(h.validate.Struct(entity), nil); err != nil {
		return 0, err
	}

	id, err := h.repo.Insert(ctx, q, entity)
	if err != nil {
		if errors.Is(err, base.ErrConstraint) {
			return 0, invalid("cannot create %s: %s", h.kind, err.Error())
		}
		return 0, err
	}

	h.logger.Info("Object created",
		zap.String("entity", h.kind.String()),
		zap.Int64("id", id))

	return id, nil
}

func (h *entityHandler[T, P]) Get(ctx context.Context, q base.Querier, filter map[string]any) ([]model.Entity, error) {
	normalized := make(map[string]any, len(filter))
	for key, value := range filter {
		if !h.repo.HasColumn(key) {
			return nil, invalid("%s has no field %q", h.kind, key)
		}
		v, err := normalizeFilterValue(value)
		if err != nil {
			return nil, invalid("filter %s: %s", key, err.Error())
		}
		normalized[key] = v
	}

	rows, err := h.repo.List(ctx, q, normalized)
	if err != nil {
		return nil, err
	}

	entities := make([]model.Entity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, row)
	}
	return entities, nil
}

func (h *entityHandler[T, P]) GetOne(ctx context.Context, q base.Querier, id int64) (model.Entity, error) {
	entity, err := h.repo.GetByID(ctx, q, id)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, notFound("%s with id %d not found", h.kind, id)
		}
		return nil, err
	}
	return entity, nil
}

// Update записывает только переданные поля, остальные колонки не трогает
func (h *entityHandler[T, P]) Update(ctx context.Context, q base.Querier, id int64, payload json.RawMessage) (int64, error) {
	fields, err := h.fields(payload)
	if err != nil {
		return 0, err
	}
	delete(fields, "id")

	entity, err := h.repo.GetByID(ctx, q, id)
	if err != nil {
		if base.IsNotFound(err) {
			return 0, notFound("%s with id %d not found", h.kind, id)
		}
		return 0, err
	}

	if err := decodeFields(fields, entity); err != nil {
		return 0, err
	}

	provided := make(map[string]bool, len(fields))
	columns := make([]string, 0, len(fields))
	for key := range fields {
		provided[key] = true
		columns = append(columns, key)
	}
	sort.Strings(columns)

	if err := validationError(h.validate.Struct(entity), provided); err != nil {
		return 0, err
	}

	affected, err := h.repo.UpdateColumns(ctx, q, entity, columns)
	if err != nil {
		if errors.Is(err, base.ErrConstraint) {
			return 0, invalid("cannot update %s %d: %s", h.kind, id, err.Error())
		}
		return 0, err
	}
	if len(columns) > 0 && affected == 0 {
		return 0, notFound("%s with id %d not found", h.kind, id)
	}

	h.logger.Info("Object updated",
		zap.String("entity", h.kind.String()),
		zap.Int64("id", id),
		zap.Strings("fields", columns))

	return id, nil
}

func (h *entityHandler[T, P]) Delete(ctx context.Context, q base.Querier, id int64) (int64, error) {
	affected, err := h.repo.Delete(ctx, q, id)
	if err != nil {
		if errors.Is(err, base.ErrConstraint) {
			return 0, invalid("cannot delete %s %d: %s", h.kind, id, err.Error())
		}
		return 0, err
	}
	if affected == 0 {
		return 0, notFound("%s with id %d not found", h.kind, id)
	}

	h.logger.Info("Object deleted",
		zap.String("entity", h.kind.String()),
		zap.Int64("id", id))

	return id, nil
}

// fields разбирает payload в объект и проверяет имена ключей
func (h *entityHandler[T, P]) fields(payload json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := decodeStrict(payload, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, invalid("payload must be a JSON object")
	}

	for key := range fields {
		if !h.repo.HasColumn(key) {
			return nil, invalid("%s has no field %q", h.kind, key)
		}
	}
	return fields, nil
}

// decodeFields переносит значения полей в структуру
func decodeFields(fields map[string]json.RawMessage, dst any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	return decodeStrict(raw, dst)
}

// normalizeFilterValue приводит значения фильтра из JSON к типам драйвера
func normalizeFilterValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int64, float64:
		return v, nil
	case int:
		return int64(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %s", v.String())
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", value)
	}
}
