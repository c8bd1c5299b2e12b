package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pesopolis/internal/model"
	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CourseService запись собак на курсы
type CourseService struct {
	db       *base.Database
	registry *Registry
	logger   *zap.Logger
}

func NewCourseService(db *base.Database, registry *Registry, logger *zap.Logger) *CourseService {
	return &CourseService{
		db:       db,
		registry: registry,
		logger:   logger,
	}
}

// Enroll записывает собак на курс и возвращает id созданных записей
func (s *CourseService) Enroll(ctx context.Context, courseID int64, dogIDs []int64) ([]int64, error) {
	dogIDs = lo.Uniq(dogIDs)
	if len(dogIDs) == 0 {
		return nil, invalid("at least one dog id is required")
	}

	courses, err := s.registry.Resolve(model.KindCourses)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.registry.Resolve(model.KindCourseDogs)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(dogIDs))
	err = s.db.InTx(ctx, func(q base.Querier) error {
		if _, err := courses.GetOne(ctx, q, courseID); err != nil {
			return err
		}

		for _, dogID := range dogIDs {
			id, err := enrollments.Create(ctx, q, mustPayload(map[string]any{
				"dog_id":    dogID,
				"course_id": courseID,
			}))
			if err != nil {
				return fmt.Errorf("enroll dog %d: %w", dogID, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Dogs enrolled",
		zap.Int64("course_id", courseID),
		zap.Int64s("dog_ids", dogIDs))

	return ids, nil
}
