package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// JSONStringArray is a string slice stored as a JSON text column.
// Implements sql.Scanner and driver.Valuer so it works with both the
// gorm store and raw SQL.
type JSONStringArray []string

// Value implements driver.Valuer.
func (a JSONStringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, fmt.Errorf("marshal string array: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (a *JSONStringArray) Scan(value any) error {
	if value == nil {
		*a = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONStringArray: %T", value)
	}
	if len(data) == 0 {
		*a = nil
		return nil
	}
	return json.Unmarshal(data, (*[]string)(a))
}

// Contains reports whether the array holds s (case-sensitive).
func (a JSONStringArray) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}

// ContainsFold reports whether the array holds s, ignoring case.
// Scoring features are free text entered by different admins, so the
// scorers match case-insensitively.
func (a JSONStringArray) ContainsFold(s string) bool {
	for _, v := range a {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
