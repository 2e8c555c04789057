package inventory

import (
	"testing"

	"github.com/erazemk/inventario/internal/model"
)

func names(m map[string]string) NameLookup {
	return func(id string) (string, bool) {
		n, ok := m[id]
		return n, ok
	}
}

func ptr[T any](v T) *T { return &v }

func movementTypes(ms []model.Movement) []model.MovementType {
	out := make([]model.MovementType, len(ms))
	for i, m := range ms {
		out[i] = m.Type
	}
	return out
}

func equalTypes(got []model.Movement, want ...model.MovementType) bool {
	types := movementTypes(got)
	if len(types) != len(want) {
		return false
	}
	for i := range types {
		if types[i] != want[i] {
			return false
		}
	}
	return true
}

var directory = names(map[string]string{"a": "Alice", "b": "Bob"})

func laptop() model.Equipment {
	return model.Equipment{ID: "e1", Name: "Laptop A", Type: "Notebook", SerialNumber: "SN1", Status: model.StatusActive}
}

func TestDeriveCreate(t *testing.T) {
	ms := DeriveCreate(laptop(), "Admin", directory)
	if !equalTypes(ms, model.MovementCreated) {
		t.Fatalf("expected [created], got %v", movementTypes(ms))
	}
	if ms[0].Description != "Equipment created: Notebook, serial number SN1" {
		t.Errorf("unexpected description %q", ms[0].Description)
	}
	if ms[0].PerformedBy != "Admin" || ms[0].EquipmentName != "Laptop A" || ms[0].EquipmentID != "e1" {
		t.Errorf("unexpected movement %+v", ms[0])
	}

	eq := laptop()
	eq.AssignedTo = ptr("a")
	ms = DeriveCreate(eq, "Admin", directory)
	if !equalTypes(ms, model.MovementCreated, model.MovementAssigned) {
		t.Fatalf("expected [created assigned], got %v", movementTypes(ms))
	}
	if ms[1].NewValue != "Alice" || ms[1].UserID != "a" || ms[1].UserName != "Alice" {
		t.Errorf("unexpected assigned movement %+v", ms[1])
	}
}

func TestDeriveUpdate(t *testing.T) {
	withA := laptop()
	withA.AssignedTo = ptr("a")

	tests := []struct {
		name  string
		old   model.Equipment
		patch model.EquipmentPatch
		want  []model.MovementType
	}{
		{"empty patch", withA, model.EquipmentPatch{}, nil},
		{"identical values", withA, model.EquipmentPatch{
			Name: ptr("Laptop A"), Type: ptr("Notebook"), SerialNumber: ptr("SN1"),
			Status: ptr(model.StatusActive), AssignedTo: model.AssignTo("a"),
		}, nil},
		{"assign", laptop(), model.EquipmentPatch{AssignedTo: model.AssignTo("a")},
			[]model.MovementType{model.MovementAssigned}},
		{"unassign", withA, model.EquipmentPatch{AssignedTo: model.Unassign()},
			[]model.MovementType{model.MovementUnassigned}},
		{"unassign when already unassigned", laptop(), model.EquipmentPatch{AssignedTo: model.Unassign()}, nil},
		{"reassign", withA, model.EquipmentPatch{AssignedTo: model.AssignTo("b")},
			[]model.MovementType{model.MovementUnassigned, model.MovementAssigned}},
		{"absent assignee keeps holder", withA, model.EquipmentPatch{Status: ptr(model.StatusInactive)},
			[]model.MovementType{model.MovementStatusChanged}},
		{"fixed order", withA, model.EquipmentPatch{
			Name: ptr("Laptop B"), Status: ptr(model.StatusMaintenance), AssignedTo: model.AssignTo("b"),
		}, []model.MovementType{model.MovementStatusChanged, model.MovementUnassigned, model.MovementAssigned, model.MovementUpdated}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveUpdate(tt.old, tt.patch, "Admin", directory)
			if !equalTypes(got, tt.want...) {
				t.Errorf("got %v, want %v", movementTypes(got), tt.want)
			}
		})
	}
}

func TestDeriveUpdateValues(t *testing.T) {
	old := laptop()
	old.AssignedTo = ptr("a")

	ms := DeriveUpdate(old, model.EquipmentPatch{
		Status:     ptr(model.StatusMaintenance),
		AssignedTo: model.AssignTo("b"),
	}, "Admin", directory)

	status, out, in := ms[0], ms[1], ms[2]
	if status.PreviousValue != "active" || status.NewValue != "maintenance" {
		t.Errorf("unexpected status values %q -> %q", status.PreviousValue, status.NewValue)
	}
	if status.Description != "Status changed from Active to Maintenance" {
		t.Errorf("unexpected status description %q", status.Description)
	}
	if out.PreviousValue != "Alice" || out.UserID != "a" || out.UserName != "Alice" {
		t.Errorf("unexpected unassigned movement %+v", out)
	}
	if in.NewValue != "Bob" || in.UserID != "b" || in.UserName != "Bob" {
		t.Errorf("unexpected assigned movement %+v", in)
	}
}

func TestDeriveUpdateCombinesFieldChanges(t *testing.T) {
	ms := DeriveUpdate(laptop(), model.EquipmentPatch{
		Name:         ptr("Laptop B"),
		Type:         ptr("Notebook"),
		SerialNumber: ptr("SN2"),
	}, "Admin", directory)

	if !equalTypes(ms, model.MovementUpdated) {
		t.Fatalf("expected a single updated movement, got %v", movementTypes(ms))
	}
	if ms[0].Description != "Updated fields: name, serial number" {
		t.Errorf("unexpected description %q", ms[0].Description)
	}
	// The snapshot is the name before the update.
	if ms[0].EquipmentName != "Laptop A" {
		t.Errorf("expected snapshot of old name, got %q", ms[0].EquipmentName)
	}
}

func TestDeriveUnknownAssignee(t *testing.T) {
	ms := DeriveUpdate(laptop(), model.EquipmentPatch{AssignedTo: model.AssignTo("ghost")}, "Admin", directory)
	if len(ms) != 1 || ms[0].UserName != unknownUserName || ms[0].UserID != "ghost" {
		t.Errorf("unexpected movement for unknown assignee: %+v", ms)
	}
}

func TestDeriveDelete(t *testing.T) {
	ms := DeriveDelete(laptop(), "Admin")
	if !equalTypes(ms, model.MovementDeleted) {
		t.Fatalf("expected [deleted], got %v", movementTypes(ms))
	}
	if ms[0].Description != "Equipment deleted: Notebook, serial number SN1" {
		t.Errorf("unexpected description %q", ms[0].Description)
	}
}

func TestDeriveUserDeleted(t *testing.T) {
	eq := laptop()
	eq.AssignedTo = ptr("a")

	m := DeriveUserDeleted(eq, model.User{ID: "a", Name: "Alice"}, "Admin")
	if m.Type != model.MovementUnassigned {
		t.Errorf("expected unassigned, got %q", m.Type)
	}
	if m.Description != "Unassigned from Alice (user deleted)" {
		t.Errorf("unexpected description %q", m.Description)
	}
	if m.PreviousValue != "Alice" || m.UserID != "a" || m.UserName != "Alice" {
		t.Errorf("unexpected movement %+v", m)
	}

	m = DeriveUserDeleted(eq, model.User{ID: "a"}, "Admin")
	if m.Description != "Unassigned from removed user (user deleted)" {
		t.Errorf("unexpected description for nameless user %q", m.Description)
	}
}
