package model

import "time"

// MovementType classifies a movement record.
type MovementType string

// Movement types.
const (
	MovementCreated       MovementType = "created"
	MovementUpdated       MovementType = "updated"
	MovementDeleted       MovementType = "deleted"
	MovementAssigned      MovementType = "assigned"
	MovementUnassigned    MovementType = "unassigned"
	MovementStatusChanged MovementType = "status_changed"
)

// Label returns the display name used by history views and exports.
func (t MovementType) Label() string {
	switch t {
	case MovementCreated:
		return "Created"
	case MovementUpdated:
		return "Updated"
	case MovementDeleted:
		return "Deleted"
	case MovementAssigned:
		return "Assigned"
	case MovementUnassigned:
		return "Unassigned"
	case MovementStatusChanged:
		return "Status changed"
	default:
		return string(t)
	}
}

// Movement is an immutable audit record of one change to a piece of equipment.
// Name and value fields are snapshots taken when the movement was recorded.
type Movement struct {
	ID            string       `json:"id"`
	EquipmentID   string       `json:"equipment_id"`
	EquipmentName string       `json:"equipment_name"`
	Type          MovementType `json:"type"`
	Description   string       `json:"description"`
	PreviousValue string       `json:"previous_value,omitempty"`
	NewValue      string       `json:"new_value,omitempty"`
	UserID        string       `json:"user_id,omitempty"`
	UserName      string       `json:"user_name,omitempty"`
	PerformedBy   string       `json:"performed_by"`
	CreatedAt     time.Time    `json:"created_at"`
}
