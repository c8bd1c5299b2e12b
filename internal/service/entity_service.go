package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/pesopolis/internal/model"
	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"go.uber.org/zap"
)

// OperationType вид операции над сущностью
type OperationType string

const (
	OpGet        OperationType = "get"
	OpGetOne     OperationType = "get_one"
	OpCreate     OperationType = "create"
	OpCreateMany OperationType = "create_many"
	OpUpdate     OperationType = "update"
	OpUpdateMany OperationType = "update_many"
	OpDelete     OperationType = "delete"
	OpDeleteMany OperationType = "delete_many"
)

// Operation описание операции, пришедшей с границы сервиса
type Operation struct {
	Entity  string
	Type    OperationType
	ID      int64
	Payload json.RawMessage
}

// Конверты результатов
type CreatedResult struct {
	CreatedID int64 `json:"created_id"`
}

type CreatedManyResult struct {
	CreatedIDs []int64 `json:"created_ids"`
}

type UpdatedResult struct {
	UpdatedID int64 `json:"updated_id"`
}

type UpdatedManyResult struct {
	UpdatedIDs []int64 `json:"updated_ids"`
}

type DeletedResult struct {
	DeletedID int64 `json:"deleted_id"`
}

type DeletedManyResult struct {
	DeletedIDs []int64 `json:"deleted_ids"`
}

// EntityService выполняет операции реестра, каждую в своей транзакции
type EntityService struct {
	db       *base.Database
	registry *Registry
	logger   *zap.Logger
}

func NewEntityService(db *base.Database, registry *Registry, logger *zap.Logger) *EntityService {
	return &EntityService{
		db:       db,
		registry: registry,
		logger:   logger,
	}
}

// Dispatch выполняет операцию по её описанию и возвращает конверт результата
func (s *EntityService) Dispatch(ctx context.Context, op Operation) (any, error) {
	kind, err := model.ParseKind(op.Entity)
	if err != nil {
		return nil, unknownEntity(err)
	}

	switch op.Type {
	case OpGet:
		filter, err := decodeFilter(op.Payload)
		if err != nil {
			return nil, err
		}
		return s.Get(ctx, kind, filter)

	case OpGetOne:
		return s.GetOne(ctx, kind, op.ID)

	case OpCreate:
		id, err := s.Create(ctx, kind, op.Payload)
		if err != nil {
			return nil, err
		}
		return CreatedResult{CreatedID: id}, nil

	case OpCreateMany:
		items, err := decodeArray(op.Payload)
		if err != nil {
			return nil, err
		}
		ids, err := s.CreateMany(ctx, kind, items)
		if err != nil {
			return nil, err
		}
		return CreatedManyResult{CreatedIDs: ids}, nil

	case OpUpdate:
		id, err := s.Update(ctx, kind, op.ID, op.Payload)
		if err != nil {
			return nil, err
		}
		return UpdatedResult{UpdatedID: id}, nil

	case OpUpdateMany:
		items, err := decodeArray(op.Payload)
		if err != nil {
			return nil, err
		}
		ids, err := s.UpdateMany(ctx, kind, items)
		if err != nil {
			return nil, err
		}
		return UpdatedManyResult{UpdatedIDs: ids}, nil

	case OpDelete:
		id, err := s.Delete(ctx, kind, op.ID)
		if err != nil {
			return nil, err
		}
		return DeletedResult{DeletedID: id}, nil

	case OpDeleteMany:
		var ids []int64
		if err := json.Unmarshal(op.Payload, &ids); err != nil {
			return nil, invalid("payload must be an array of ids")
		}
		deleted, err := s.DeleteMany(ctx, kind, ids)
		if err != nil {
			return nil, err
		}
		return DeletedManyResult{DeletedIDs: deleted}, nil

	default:
		return nil, invalid("unknown operation %q", op.Type)
	}
}

func (s *EntityService) Get(ctx context.Context, kind model.Kind, filter map[string]any) ([]model.Entity, error) {
	handler, err := s.registry.Resolve(kind)
	if err != nil {
		return nil, err
	}

	entities, err := handler.Get(ctx, s.db.DB(), filter)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return entities, nil
}

func (s *EntityService) GetOne(ctx context.Context, kind model.Kind, id int64) (model.Entity, error) {
	handler, err := s.registry.Resolve(kind)
	if err != nil {
		return nil, err
	}

	entity, err := handler.GetOne(ctx, s.db.DB(), id)
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", kind, id, err)
	}
	return entity, nil
}

func (s *EntityService) Create(ctx context.Context, kind model.Kind, payload json.RawMessage) (int64, error) {
	ids, err := s.CreateMany(ctx, kind, []json.RawMessage{payload})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// CreateMany создаёт все объекты в одной транзакции, id возвращаются в порядке входа
func (s *EntityService) CreateMany(ctx context.Context, kind model.Kind, payloads []json.RawMessage) ([]int64, error) {
	handler, err := s.registry.Resolve(kind)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(payloads))
	err = s.db.InTx(ctx, func(q base.Querier) error {
		for i, payload := range payloads {
			id, err := handler.Create(ctx, q, payload)
			if err != nil {
				return s.itemError(kind, "create", i, len(payloads), err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *EntityService) Update(ctx context.Context, kind model.Kind, id int64, payload json.RawMessage) (int64, error) {
	handler, err := s.registry.Resolve(kind)
	if err != nil {
		return 0, err
	}

	var updated int64
	err = s.db.InTx(ctx, func(q base.Querier) error {
		updated, err = handler.Update(ctx, q, id, payload)
		if err != nil {
			return fmt.Errorf("update %s %d: %w", kind, id, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// UpdateMany обновляет объекты по очереди. Каждый элемент обязан содержать id.
func (s *EntityService) UpdateMany(ctx context.Context, kind model.Kind, payloads []json.RawMessage) ([]int64, error) {
	handler, err := s.registry.Resolve(kind)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(payloads))
	err = s.db.InTx(ctx, func(q base.Querier) error {
		for i, payload := range payloads {
			id, err := payloadID(payload)
			if err != nil {
				return s.itemError(kind, "update", i, len(payloads), err)
			}
			if _, err := handler.Update(ctx, q, id, payload); err != nil {
				return s.itemError(kind, "update", i, len(payloads), err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *EntityService) Delete(ctx context.Context, kind model.Kind, id int64) (int64, error) {
	ids, err := s.DeleteMany(ctx, kind, []int64{id})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

func (s *EntityService) DeleteMany(ctx context.Context, kind model.Kind, ids []int64) ([]int64, error) {
	handler, err := s.registry.Resolve(kind)
	if err != nil {
		return nil, err
	}

	deleted := make([]int64, 0, len(ids))
	err = s.db.InTx(ctx, func(q base.Querier) error {
		for i, id := range ids {
			if _, err := handler.Delete(ctx, q, id); err != nil {
				return s.itemError(kind, "delete", i, len(ids), err)
			}
			deleted = append(deleted, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// itemError логирует сбой элемента пакета. Весь пакет после этого откатывается.
func (s *EntityService) itemError(kind model.Kind, action string, index, total int, err error) error {
	s.logger.Warn("Batch item failed, rolling back",
		zap.String("entity", kind.String()),
		zap.String("action", action),
		zap.Int("index", index),
		zap.Int("total", total),
		zap.Error(err))
	if total == 1 {
		return fmt.Errorf("%s %s: %w", action, kind, err)
	}
	return fmt.Errorf("%s %s item %d: %w", action, kind, index, err)
}

func decodeFilter(payload json.RawMessage) (map[string]any, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var filter map[string]any
	if err := dec.Decode(&filter); err != nil {
		return nil, invalid("filter must be a JSON object")
	}
	return filter, nil
}

func decodeArray(payload json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil || items == nil {
		return nil, invalid("payload must be a JSON array")
	}
	return items, nil
}

// payloadID достаёт обязательный id из элемента пакетного обновления
func payloadID(payload json.RawMessage) (int64, error) {
	var item struct {
		ID *json.Number `json:"id"`
	}
	if err := json.Unmarshal(payload, &item); err != nil {
		return 0, invalid("payload must be a JSON object")
	}
	if item.ID == nil {
		return 0, invalid("id is required")
	}
	id, err := item.ID.Int64()
	if err != nil {
		return 0, invalid("id must be an integer")
	}
	return id, nil
}
