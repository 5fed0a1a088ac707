package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Flag is a boolean persisted as a 0/1 integer column and rendered as a JSON bool.
type Flag bool

func (f Flag) Value() (driver.Value, error) {
	if f {
		return int64(1), nil
	}
	return int64(0), nil
}

func (f *Flag) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = false
	case int64:
		*f = v != 0
	case int:
		*f = v != 0
	case bool:
		*f = Flag(v)
	case []byte:
		*f = len(v) > 0 && string(v) != "0" && string(v) != "false"
	case string:
		*f = v != "" && v != "0" && v != "false"
	default:
		return fmt.Errorf("cannot scan %T into Flag", src)
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}
