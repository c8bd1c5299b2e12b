package service

import (
	"fmt"

	"github.com/Freeeeeet/pesopolis/internal/model"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Registry сопоставляет вид сущности с его обработчиком
type Registry struct {
	handlers map[model.Kind]Handler
}

// NewRegistry собирает реестр. Каждый вид должен иметь ровно один обработчик.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	registry := &Registry{handlers: make(map[model.Kind]Handler, len(handlers))}
	for _, handler := range handlers {
		if _, exists := registry.handlers[handler.Kind()]; exists {
			return nil, fmt.Errorf("duplicate handler for %s", handler.Kind())
		}
		registry.handlers[handler.Kind()] = handler
	}

	for _, kind := range model.AllKinds() {
		if _, ok := registry.handlers[kind]; !ok {
			return nil, fmt.Errorf("no handler registered for %s", kind)
		}
	}
	return registry, nil
}

// DefaultHandlers обработчики для всех таблиц сервиса
func DefaultHandlers(validate *validator.Validate, logger *zap.Logger) []Handler {
	return []Handler{
		newEntityHandler[model.Administrator](model.KindAdministrators, nil, validate, logger),
		newEntityHandler[model.Course](model.KindCourses, nil, validate, logger),
		newEntityHandler[model.Customer](model.KindCustomers, nil, validate, logger),
		newEntityHandler[model.Dog](model.KindDogs, model.NewDog, validate, logger),
		newEntityHandler[model.Lesson](model.KindLessons, nil, validate, logger),
		newEntityHandler[model.LessonStaff](model.KindLessonStaff, nil, validate, logger),
		newEntityHandler[model.LessonDog](model.KindLessonDog, nil, validate, logger),
		newEntityHandler[model.Staff](model.KindStaffs, nil, validate, logger),
		newEntityHandler[model.StaffStatus](model.KindStaffStatuses, nil, validate, logger),
		newEntityHandler[model.CourseDog](model.KindCourseDogs, nil, validate, logger),
	}
}

// Resolve возвращает обработчик вида
func (r *Registry) Resolve(kind model.Kind) (Handler, error) {
	handler, ok := r.handlers[kind]
	if !ok {
		return nil, unknownEntity(fmt.Errorf("%w: %s", model.ErrUnknownEntity, kind))
	}
	return handler, nil
}

// ResolveName возвращает обработчик по публичному имени сущности
func (r *Registry) ResolveName(name string) (Handler, error) {
	kind, err := model.ParseKind(name)
	if err != nil {
		return nil, unknownEntity(err)
	}
	return r.Resolve(kind)
}
