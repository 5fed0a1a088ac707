// Package payload decodes loosely typed JSON request bodies and coerces
// individual fields into the strongly typed shapes services expect.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pastoral-backend/internal/apperr"
)

const DateLayout = "2006-01-02"

// Map is a decoded JSON object. Numbers are kept as json.Number.
type Map map[string]any

// Decode parses body as a JSON object. An empty body decodes to an empty Map.
func Decode(body []byte) (Map, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Map{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var m Map
	if err := dec.Decode(&m); err != nil {
		return nil, apperr.InvalidInput("Invalid request body")
	}
	if m == nil {
		return nil, apperr.InvalidInput("Request body must be a JSON object")
	}
	return m, nil
}

func mismatch(key, want string) error {
	return apperr.InvalidInput(fmt.Sprintf("%s must be %s", key, want))
}

// OptionalString returns nil for absent or null values.
func (m Map) OptionalString(key string) (*string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, mismatch(key, "a string")
	}
	return &s, nil
}

// RequiredString trims the value and rejects absent or blank input.
func (m Map) RequiredString(key string) (string, error) {
	s, err := m.OptionalString(key)
	if err != nil {
		return "", err
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", apperr.InvalidInput(key + " is required")
	}
	return strings.TrimSpace(*s), nil
}

// OptionalDate accepts null, absent, "" or a YYYY-MM-DD string.
func (m Map) OptionalDate(key string) (*string, error) {
	s, err := m.OptionalString(key)
	if err != nil || s == nil {
		return nil, err
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return &v, nil
	}
	if _, err := time.Parse(DateLayout, v); err != nil {
		return nil, mismatch(key, "a date in YYYY-MM-DD format")
	}
	return &v, nil
}

// Flag applies truthiness rules: bools as-is, numbers non-zero, and a fixed
// set of string spellings. Absent and null are false.
func (m Map) Flag(key string) (bool, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return false, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return false, mismatch(key, "a boolean")
		}
		return f != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off", "":
			return false, nil
		}
	}
	return false, mismatch(key, "a boolean")
}

// OptionalID accepts a positive integer, a numeric string, or null/absent/""
// (all of which mean "no reference").
func (m Map) OptionalID(key string) (*uint, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
		if text == "" {
			return nil, nil
		}
	default:
		return nil, mismatch(key, "an id")
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil || n == 0 {
		return nil, mismatch(key, "a positive integer id")
	}
	id := uint(n)
	return &id, nil
}

// ParseID parses a path parameter id.
func ParseID(raw, what string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.InvalidInput("Invalid " + what + " id")
	}
	return uint(n), nil
}
