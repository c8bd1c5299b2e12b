package model

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Money денежная сумма с фиксированной точностью.
// В postgres хранится как NUMERIC, в облегчённой sqlite-конфигурации как REAL.
type Money struct {
	d apd.Decimal
}

// NewMoney создаёт сумму из целого числа единиц
func NewMoney(units int64) Money {
	var m Money
	m.d.SetInt64(units)
	return m
}

// ParseMoney разбирает десятичную запись суммы
func ParseMoney(s string) (Money, error) {
	var m Money
	if _, _, err := m.d.SetString(s); err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	if m.d.Form != apd.Finite {
		return Money{}, fmt.Errorf("parse money %q: not a finite number", s)
	}
	return m, nil
}

// MustMoney как ParseMoney, но паникует при ошибке
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Add возвращает сумму m + other
func (m Money) Add(other Money) (Money, error) {
	var out Money
	if _, err := apd.BaseContext.Add(&out.d, &m.d, &other.d); err != nil {
		return Money{}, fmt.Errorf("add money: %w", err)
	}
	return out, nil
}

// Cmp сравнивает суммы: -1, 0 или 1
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(&other.d)
}

// Equal сравнивает суммы по значению (1000 == 1000.00)
func (m Money) Equal(other Money) bool {
	return m.Cmp(other) == 0
}

func (m Money) String() string {
	return m.d.Text('f')
}

// MarshalJSON кодирует сумму числом
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.Text('f')), nil
}

// UnmarshalJSON принимает число или строку с числом
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if len(data) >= 2 && data[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("money: %w", err)
		}
		s = unquoted
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value реализует driver.Valuer
func (m Money) Value() (driver.Value, error) {
	return m.d.Text('f'), nil
}

// Scan реализует sql.Scanner для NUMERIC (строка) и REAL (float64)
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Money{}
		return nil
	case float64:
		parsed, err := ParseMoney(strconv.FormatFloat(v, 'f', -1, 64))
		if err != nil {
			return err
		}
		*m = parsed
	case int64:
		*m = NewMoney(v)
	case string:
		parsed, err := ParseMoney(v)
		if err != nil {
			return err
		}
		*m = parsed
	case []byte:
		parsed, err := ParseMoney(string(v))
		if err != nil {
			return err
		}
		*m = parsed
	default:
		return fmt.Errorf("scan money: unsupported type %T", src)
	}
	return nil
}
