package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator создаёт валидатор, который называет поля по JSON-ключам
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// decodeStrict декодирует JSON-объект в dst, отклоняя неизвестные поля
func decodeStrict(payload []byte, dst any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return invalid("payload must be a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return invalid("invalid payload: %s", err.Error())
	}
	if dec.More() {
		return invalid("invalid payload: unexpected data after object")
	}
	return nil
}

// validationError переводит ошибки валидатора в доменную ошибку.
// Если only не nil, учитываются только перечисленные поля.
func validationError(err error, only map[string]bool) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalid("%s", err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if only != nil && !only[fe.Field()] {
			continue
		}
		messages = append(messages, describeFieldError(fe))
	}
	if len(messages) == 0 {
		return nil
	}
	return invalid("%s", strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must contain at least %s items", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q check", fe.Field(), fe.Tag())
	}
}
