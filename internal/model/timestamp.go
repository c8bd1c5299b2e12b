package model

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02",
}

// Timestamp момент времени с приведением из ISO-8601 строк
type Timestamp struct {
	time.Time
}

// NewTimestamp оборачивает time.Time, приводя его к UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp разбирает дату или дату со временем.
// Значения без часового пояса считаются UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339Nano))), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t Timestamp) Value() (driver.Value, error) {
	return t.UTC(), nil
}

// Scan реализует sql.Scanner
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
	case time.Time:
		*t = NewTimestamp(v)
	case string:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParseTimestamp(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}
	return nil
}
