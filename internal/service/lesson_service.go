package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/pesopolis/internal/model"
	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// LessonPlan занятие вместе с собаками и сотрудниками
type LessonPlan struct {
	IsGroup  bool             `json:"is_group"`
	Date     *model.Timestamp `json:"date" validate:"required"`
	DogIDs   []int64          `json:"dog_ids" validate:"dive,gt=0"`
	StaffIDs []int64          `json:"staff_ids" validate:"dive,gt=0"`
}

// LessonService создаёт занятие и его связи одной операцией
type LessonService struct {
	db       *base.Database
	registry *Registry
	validate *validator.Validate
	logger   *zap.Logger
}

func NewLessonService(db *base.Database, registry *Registry, validate *validator.Validate, logger *zap.Logger) *LessonService {
	return &LessonService{
		db:       db,
		registry: registry,
		validate: validate,
		logger:   logger,
	}
}

// Schedule создаёт занятие и привязывает к нему собак и сотрудников.
// Повторяющиеся id учитываются один раз.
func (s *LessonService) Schedule(ctx context.Context, plan LessonPlan) (int64, error) {
	if err := validationError(s.validate.Struct(plan), nil); err != nil {
		return 0, err
	}

	lessons, err := s.registry.Resolve(model.KindLessons)
	if err != nil {
		return 0, err
	}
	lessonDogs, err := s.registry.Resolve(model.KindLessonDog)
	if err != nil {
		return 0, err
	}
	lessonStaff, err := s.registry.Resolve(model.KindLessonStaff)
	if err != nil {
		return 0, err
	}

	var lessonID int64
	err = s.db.InTx(ctx, func(q base.Querier) error {
		lessonID, err = lessons.Create(ctx, q, mustPayload(map[string]any{
			"is_group": plan.IsGroup,
			"date":     plan.Date,
		}))
		if err != nil {
			return fmt.Errorf("create lesson: %w", err)
		}

		for _, dogID := range lo.Uniq(plan.DogIDs) {
			_, err := lessonDogs.Create(ctx, q, mustPayload(map[string]any{
				"dog_id":    dogID,
				"lesson_id": lessonID,
			}))
			if err != nil {
				return fmt.Errorf("attach dog %d: %w", dogID, err)
			}
		}

		for _, staffID := range lo.Uniq(plan.StaffIDs) {
			_, err := lessonStaff.Create(ctx, q, mustPayload(map[string]any{
				"staff_id":  staffID,
				"lesson_id": lessonID,
			}))
			if err != nil {
				return fmt.Errorf("attach staff %d: %w", staffID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Lesson scheduled",
		zap.Int64("lesson_id", lessonID),
		zap.Bool("is_group", plan.IsGroup),
		zap.Int("dogs", len(plan.DogIDs)),
		zap.Int("staff", len(plan.StaffIDs)))

	return lessonID, nil
}

// mustPayload кодирует внутренний payload, собранный из известных типов
func mustPayload(fields map[string]any) json.RawMessage {
	raw, err := json.Marshal(fields)
	if err != nil {
		panic(fmt.Sprintf("encode payload: %v", err))
	}
	return raw
}
