package service

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/pesopolis/internal/model"
)

// Доменные ошибки, которые пересекают границу сервиса без изменений
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrUnknownEntity = model.ErrUnknownEntity
)

// Error доменная ошибка с описанием для клиента
type Error struct {
	kind        error
	Description string
}

func (e *Error) Error() string {
	return e.Description
}

func (e *Error) Unwrap() error {
	return e.kind
}

func notFound(format string, args ...any) error {
	return &Error{kind: ErrNotFound, Description: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &Error{kind: ErrValidation, Description: fmt.Sprintf(format, args...)}
}

func unknownEntity(err error) error {
	return &Error{kind: ErrUnknownEntity, Description: err.Error()}
}

// Describe возвращает описание доменной ошибки.
// Для прочих ошибок ok == false, их текст клиенту не показывается.
func Describe(err error) (description string, ok bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Description, true
	}
	return "", false
}
