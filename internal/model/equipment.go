package model

import (
	"encoding/json"
	"time"
)

// EquipmentStatus is the lifecycle state of a piece of equipment.
type EquipmentStatus string

// Equipment statuses.
const (
	StatusActive      EquipmentStatus = "active"
	StatusMaintenance EquipmentStatus = "maintenance"
	StatusInactive    EquipmentStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s EquipmentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusInactive:
		return true
	}
	return false
}

// Label returns the display name of the status.
func (s EquipmentStatus) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusMaintenance:
		return "Maintenance"
	case StatusInactive:
		return "Inactive"
	default:
		return string(s)
	}
}

// EquipmentTypes is the catalogue of equipment types offered to callers.
var EquipmentTypes = []string{
	"Notebook",
	"Monitor",
	"Mouse",
	"Keyboard",
	"Headset",
	"Phone",
	"Tablet",
	"Other",
}

// Equipment represents a single tracked item, optionally assigned to a user.
type Equipment struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	SerialNumber string          `json:"serial_number"`
	AssignedTo   *string         `json:"assigned_to"`
	Status       EquipmentStatus `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Assigned reports whether the equipment is currently assigned to anyone.
func (e Equipment) Assigned() bool {
	return e.AssignedTo != nil
}

// AssignedToUser reports whether the equipment is assigned to userID.
func (e Equipment) AssignedToUser(userID string) bool {
	return e.AssignedTo != nil && *e.AssignedTo == userID
}

// EquipmentInput holds the fields supplied when registering equipment.
type EquipmentInput struct {
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	SerialNumber string          `json:"serial_number"`
	AssignedTo   *string         `json:"assigned_to"`
	Status       EquipmentStatus `json:"status"`
}

// EquipmentPatch is a partial update. Nil fields are left untouched;
// AssignedTo tracks presence separately so an explicit null unassigns.
type EquipmentPatch struct {
	Name         *string          `json:"name"`
	Type         *string          `json:"type"`
	SerialNumber *string          `json:"serial_number"`
	Status       *EquipmentStatus `json:"status"`
	AssignedTo   Reassignment     `json:"assigned_to"`
}

// Apply merges the patch into e.
func (p EquipmentPatch) Apply(e *Equipment) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.SerialNumber != nil {
		e.SerialNumber = *p.SerialNumber
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.AssignedTo.Set {
		e.AssignedTo = cloneID(p.AssignedTo.UserID)
	}
}

// Reassignment is a present-or-absent assignee. Set with a nil UserID
// means "unassign".
type Reassignment struct {
	Set    bool
	UserID *string
}

// AssignTo returns a reassignment to userID.
func AssignTo(userID string) Reassignment {
	return Reassignment{Set: true, UserID: &userID}
}

// Unassign returns a reassignment that clears the assignee.
func Unassign() Reassignment {
	return Reassignment{Set: true}
}

// UnmarshalJSON records that the field was present, including an explicit null.
func (r *Reassignment) UnmarshalJSON(data []byte) error {
	r.Set = true
	r.UserID = nil
	if string(data) == "null" {
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	r.UserID = &id
	return nil
}

// MarshalJSON writes the assignee id or null.
func (r Reassignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.UserID)
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
