package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type Shop struct {
	Base
	Name           string         `db:"name" json:"name"`
	Address        string         `db:"address" json:"address"`
	Phone          string         `db:"phone" json:"phone"`
	OperatingHours OperatingHours `db:"operating_hours" json:"operating_hours"`
	IsActive       bool           `db:"is_active" json:"is_active"`
}

// DayHours is the open window for one weekday, as "HH:MM" local times.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed,omitempty"`
}

// OperatingHours maps lowercase English weekday names to their hours.
// A missing or null day means the shop is closed.
type OperatingHours map[string]*DayHours

// For returns the hours for the given weekday. ok is false when the shop is
// closed that day or the entry is incomplete.
func (h OperatingHours) For(day time.Weekday) (DayHours, bool) {
	d, found := h[strings.ToLower(day.String())]
	if !found || d == nil || d.Closed || d.Open == "" || d.Close == "" {
		return DayHours{}, false
	}
	return *d, true
}

func (h *OperatingHours) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*h = OperatingHours{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("operating_hours: unsupported source type")
	}
	out := OperatingHours{}
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*h = out
	return nil
}

func (h OperatingHours) Value() (driver.Value, error) {
	if h == nil {
		return "{}", nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
