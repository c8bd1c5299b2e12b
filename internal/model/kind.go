package model

import (
	"errors"
	"fmt"
)

// ErrUnknownEntity возвращается при запросе несуществующего типа объекта
var ErrUnknownEntity = errors.New("unknown entity")

// Kind тип объекта, с которым работает CRUD
type Kind int

const (
	KindAdministrators Kind = iota
	KindCourses
	KindCustomers
	KindDogs
	KindLessons
	KindLessonStaff
	KindLessonDog
	KindStaffs
	KindStaffStatuses
	// KindCourseDogs доступен только внутри сервиса (запись собак на курс)
	KindCourseDogs
)

var kindNames = map[Kind]string{
	KindAdministrators: "administrators",
	KindCourses:        "courses",
	KindCustomers:      "customers",
	KindDogs:           "dogs",
	KindLessons:        "lessons",
	KindLessonStaff:    "lesson_staff",
	KindLessonDog:      "lesson_dog",
	KindStaffs:         "staffs",
	KindStaffStatuses:  "staff_statuses",
	KindCourseDogs:     "courses_to_dogs",
}

// publicKinds типы, доступные через общие эндпоинты
var publicKinds = map[string]Kind{
	"administrators": KindAdministrators,
	"courses":        KindCourses,
	"customers":      KindCustomers,
	"dogs":           KindDogs,
	"lessons":        KindLessons,
	"lesson_staff":   KindLessonStaff,
	"lesson_dog":     KindLessonDog,
	"staffs":         KindStaffs,
	"staff_statuses": KindStaffStatuses,
}

// AllKinds возвращает полный закрытый набор типов
func AllKinds() []Kind {
	return []Kind{
		KindAdministrators,
		KindCourses,
		KindCustomers,
		KindDogs,
		KindLessons,
		KindLessonStaff,
		KindLessonDog,
		KindStaffs,
		KindStaffStatuses,
		KindCourseDogs,
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind находит публичный тип объекта по имени из URL
func ParseKind(name string) (Kind, error) {
	kind, ok := publicKinds[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	return kind, nil
}
