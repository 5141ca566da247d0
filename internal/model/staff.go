package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

// StaffID identifies a staff member. It is kept distinct from other uuid ids
// so busy intervals and rosters cannot be keyed by the wrong entity.
type StaffID uuid.UUID

func ParseStaffID(s string) (StaffID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return StaffID{}, err
	}
	return StaffID(id), nil
}

func (id StaffID) String() string {
	return uuid.UUID(id).String()
}

func (id StaffID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *StaffID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id *StaffID) Scan(src interface{}) error {
	return (*uuid.UUID)(id).Scan(src)
}

func (id StaffID) Value() (driver.Value, error) {
	return id.String(), nil
}

type Staff struct {
	ID       StaffID   `db:"id" json:"id"`
	ShopID   uuid.UUID `db:"shop_id" json:"shop_id"`
	Name     string    `db:"name" json:"name"`
	IsActive bool      `db:"is_active" json:"is_active"`
}

// Ref returns the public {id,name} projection used in slots and responses.
func (s *Staff) Ref() StaffRef {
	return StaffRef{ID: s.ID, Name: s.Name}
}

type StaffRef struct {
	ID   StaffID `json:"id"`
	Name string  `json:"name"`
}

// StaffService is one row of the optional staff <-> service capability mapping.
type StaffService struct {
	StaffID   StaffID   `db:"staff_id" json:"staff_id"`
	ServiceID uuid.UUID `db:"service_id" json:"service_id"`
}
