package app

import (
	"fmt"

	"github.com/Freeeeeet/pesopolis/internal/repository/base"
	"github.com/Freeeeeet/pesopolis/internal/service"
	"go.uber.org/zap"
)

// Services сервисы приложения поверх одной базы
type Services struct {
	Entities *service.EntityService
	Salary   *service.SalaryService
	Lessons  *service.LessonService
	Courses  *service.CourseService
}

// NewServices собирает реестр сущностей и сервисы
func NewServices(database *base.Database, logger *zap.Logger) (*Services, error) {
	validate := service.NewValidator()

	registry, err := service.NewRegistry(service.DefaultHandlers(validate, logger)...)
	if err != nil {
		return nil, fmt.Errorf("build entity registry: %w", err)
	}

	return &Services{
		Entities: service.NewEntityService(database, registry, logger),
		Salary:   service.NewSalaryService(database, logger),
		Lessons:  service.NewLessonService(database, registry, validate, logger),
		Courses:  service.NewCourseService(database, registry, logger),
	}, nil
}
