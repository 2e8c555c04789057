package inventory

import (
	"fmt"
	"strings"

	"github.com/erazemk/inventario/internal/model"
)

// NameLookup resolves a user id to the user's current name.
type NameLookup func(userID string) (string, bool)

const (
	unknownUserName = "unknown user"
	removedUserName = "removed user"
)

func (names NameLookup) resolve(userID string) string {
	if names != nil {
		if name, ok := names(userID); ok {
			return name
		}
	}
	return unknownUserName
}

// DeriveCreate returns the movements recorded when eq is registered: Created,
// followed by Assigned when it starts out with an assignee.
func DeriveCreate(eq model.Equipment, principal string, names NameLookup) []model.Movement {
	out := []model.Movement{
		draft(eq, principal, model.MovementCreated,
			fmt.Sprintf("Equipment created: %s, serial number %s", eq.Type, eq.SerialNumber)),
	}
	if eq.AssignedTo != nil {
		out = append(out, assigned(eq, principal, *eq.AssignedTo, names.resolve(*eq.AssignedTo)))
	}
	return out
}

// DeriveUpdate compares old against the fields present in patch and returns
// the resulting movements in order: status change, assignment change, then a
// single combined field update.
func DeriveUpdate(old model.Equipment, patch model.EquipmentPatch, principal string, names NameLookup) []model.Movement {
	var out []model.Movement

	if patch.Status != nil && *patch.Status != old.Status {
		m := draft(old, principal, model.MovementStatusChanged,
			fmt.Sprintf("Status changed from %s to %s", old.Status.Label(), patch.Status.Label()))
		m.PreviousValue = string(old.Status)
		m.NewValue = string(*patch.Status)
		out = append(out, m)
	}

	if patch.AssignedTo.Set && !sameAssignee(old.AssignedTo, patch.AssignedTo.UserID) {
		if old.AssignedTo != nil {
			out = append(out, unassigned(old, principal, *old.AssignedTo, names.resolve(*old.AssignedTo)))
		}
		if to := patch.AssignedTo.UserID; to != nil {
			out = append(out, assigned(old, principal, *to, names.resolve(*to)))
		}
	}

	var changed []string
	if patch.Name != nil && *patch.Name != old.Name {
		changed = append(changed, "name")
	}
	if patch.Type != nil && *patch.Type != old.Type {
		changed = append(changed, "type")
	}
	if patch.SerialNumber != nil && *patch.SerialNumber != old.SerialNumber {
		changed = append(changed, "serial number")
	}
	if len(changed) > 0 {
		out = append(out, draft(old, principal, model.MovementUpdated,
			"Updated fields: "+strings.Join(changed, ", ")))
	}

	return out
}

// DeriveDelete returns the movement recorded before eq is removed.
func DeriveDelete(eq model.Equipment, principal string) []model.Movement {
	return []model.Movement{
		draft(eq, principal, model.MovementDeleted,
			fmt.Sprintf("Equipment deleted: %s, serial number %s", eq.Type, eq.SerialNumber)),
	}
}

// DeriveUserDeleted returns the movement recorded when eq loses its assignee
// because user was deleted.
func DeriveUserDeleted(eq model.Equipment, user model.User, principal string) model.Movement {
	name := user.Name
	if name == "" {
		name = removedUserName
	}
	m := draft(eq, principal, model.MovementUnassigned,
		fmt.Sprintf("Unassigned from %s (user deleted)", name))
	m.PreviousValue = user.Name
	m.UserID = user.ID
	m.UserName = user.Name
	return m
}

func assigned(eq model.Equipment, principal, userID, userName string) model.Movement {
	m := draft(eq, principal, model.MovementAssigned, "Assigned to "+userName)
	m.NewValue = userName
	m.UserID = userID
	m.UserName = userName
	return m
}

func unassigned(eq model.Equipment, principal, userID, userName string) model.Movement {
	m := draft(eq, principal, model.MovementUnassigned, "Unassigned from "+userName)
	m.PreviousValue = userName
	m.UserID = userID
	m.UserName = userName
	return m
}

func draft(eq model.Equipment, principal string, typ model.MovementType, description string) model.Movement {
	return model.Movement{
		EquipmentID:   eq.ID,
		EquipmentName: eq.Name,
		Type:          typ,
		Description:   description,
		PerformedBy:   principal,
	}
}

func sameAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
