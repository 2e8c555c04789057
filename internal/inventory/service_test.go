package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/inventario/internal/model"
)

type fixedIdentity string

func (f fixedIdentity) Principal(context.Context) string { return string(f) }

func newTestService(t *testing.T) (*Service, *clock) {
	t.Helper()
	c := newClock()
	s := New(Options{
		Identity: fixedIdentity("Administrator"),
		Now:      c.Now,
		NewID:    sequence("id"),
	})
	return s, c
}

func TestEquipmentLifecycleScenario(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	user := s.AddUser(ctx, model.UserInput{Name: "Alice", Department: "IT", Email: "alice@example.com"})

	eq := s.AddEquipment(ctx, model.EquipmentInput{
		Name: "Laptop A", Type: "Notebook", SerialNumber: "SN1", Status: model.StatusActive,
	})
	if got := s.ListMovements(); !equalTypes(got, model.MovementCreated) {
		t.Fatalf("expected [created], got %v", movementTypes(got))
	}

	if _, err := s.UpdateEquipment(ctx, eq.ID, model.EquipmentPatch{AssignedTo: model.AssignTo(user.ID)}); err != nil {
		t.Fatalf("UpdateEquipment: %v", err)
	}
	if got := s.ListMovements(); !equalTypes(got, model.MovementAssigned, model.MovementCreated) {
		t.Fatalf("expected [assigned created], got %v", movementTypes(got))
	}

	updated, err := s.UpdateEquipment(ctx, eq.ID, model.EquipmentPatch{
		Status:     ptr(model.StatusMaintenance),
		AssignedTo: model.Unassign(),
	})
	if err != nil {
		t.Fatalf("UpdateEquipment: %v", err)
	}
	if updated.Assigned() || updated.Status != model.StatusMaintenance {
		t.Errorf("unexpected merged record %+v", updated)
	}

	// Newest first: the unassignment was appended after the status change.
	got := s.MovementsForEquipment(eq.ID)
	if !equalTypes(got, model.MovementUnassigned, model.MovementStatusChanged, model.MovementAssigned, model.MovementCreated) {
		t.Fatalf("unexpected history %v", movementTypes(got))
	}
	for _, m := range got {
		if m.PerformedBy != "Administrator" {
			t.Errorf("expected movement attributed to Administrator, got %q", m.PerformedBy)
		}
	}
}

func TestAddEquipmentWithAssignee(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	user := s.AddUser(ctx, model.UserInput{Name: "Alice"})
	eq := s.AddEquipment(ctx, model.EquipmentInput{Name: "Monitor", Type: "Monitor", SerialNumber: "M1", AssignedTo: &user.ID})

	if eq.Status != model.StatusActive {
		t.Errorf("expected default status active, got %q", eq.Status)
	}
	// Created precedes Assigned, so reads show Assigned first.
	got := s.MovementsForEquipment(eq.ID)
	if !equalTypes(got, model.MovementAssigned, model.MovementCreated) {
		t.Fatalf("unexpected history %v", movementTypes(got))
	}
	if got[0].UserName != "Alice" {
		t.Errorf("expected assignee snapshot Alice, got %q", got[0].UserName)
	}
	if n := s.EquipmentCountForUser(user.ID); n != 1 {
		t.Errorf("expected 1 equipment for user, got %d", n)
	}
}

func TestReassignmentDerivesTwoMovements(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	a := s.AddUser(ctx, model.UserInput{Name: "Alice"})
	b := s.AddUser(ctx, model.UserInput{Name: "Bob"})
	eq := s.AddEquipment(ctx, model.EquipmentInput{Name: "Phone", Type: "Phone", SerialNumber: "P1", AssignedTo: &a.ID})
	before := len(s.ListMovements())

	if _, err := s.UpdateEquipment(ctx, eq.ID, model.EquipmentPatch{AssignedTo: model.AssignTo(b.ID)}); err != nil {
		t.Fatalf("UpdateEquipment: %v", err)
	}

	added := s.ListMovements()[:len(s.ListMovements())-before]
	if !equalTypes(added, model.MovementAssigned, model.MovementUnassigned) {
		t.Fatalf("expected unassigned then assigned, got (newest first) %v", movementTypes(added))
	}
	if added[1].UserName != "Alice" || added[0].UserName != "Bob" {
		t.Errorf("unexpected snapshots: out=%q in=%q", added[1].UserName, added[0].UserName)
	}
	if got := s.EquipmentForUser(b.ID); len(got) != 1 {
		t.Errorf("expected Bob to hold the phone, got %d items", len(got))
	}
	if got := s.EquipmentForUser(a.ID); len(got) != 0 {
		t.Errorf("expected Alice to hold nothing, got %d items", len(got))
	}
}

func TestNoOpUpdateDerivesNothing(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	eq := s.AddEquipment(ctx, model.EquipmentInput{Name: "Mouse", Type: "Mouse", SerialNumber: "MS1"})
	before := len(s.ListMovements())

	s.UpdateEquipment(ctx, eq.ID, model.EquipmentPatch{})
	s.UpdateEquipment(ctx, eq.ID, model.EquipmentPatch{
		Name: ptr("Mouse"), Type: ptr("Mouse"), SerialNumber: ptr("MS1"),
		Status: ptr(model.StatusActive), AssignedTo: model.Unassign(),
	})

	if after := len(s.ListMovements()); after != before {
		t.Errorf("expected ledger length %d, got %d", before, after)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	alice := s.AddUser(ctx, model.UserInput{Name: "Alice"})
	bob := s.AddUser(ctx, model.UserInput{Name: "Bob"})
	e1 := s.AddEquipment(ctx, model.EquipmentInput{Name: "Laptop", Type: "Notebook", SerialNumber: "L1", AssignedTo: &alice.ID})
	e2 := s.AddEquipment(ctx, model.EquipmentInput{Name: "Headset", Type: "Headset", SerialNumber: "H1", AssignedTo: &alice.ID})
	e3 := s.AddEquipment(ctx, model.EquipmentInput{Name: "Tablet", Type: "Tablet", SerialNumber: "T1", AssignedTo: &bob.ID})

	if err := s.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, ok := s.UserByID(alice.ID); ok {
		t.Error("expected Alice to be removed")
	}
	for _, id := range []string{e1.ID, e2.ID} {
		eq, _ := s.EquipmentByID(id)
		if eq.Assigned() {
			t.Errorf("expected %s to be unassigned", eq.Name)
		}
		history := s.MovementsForEquipment(id)
		if history[0].Type != model.MovementUnassigned || history[0].Description != "Unassigned from Alice (user deleted)" {
			t.Errorf("unexpected latest movement for %s: %+v", eq.Name, history[0])
		}
		if history[0].UserID != alice.ID || history[0].PreviousValue != "Alice" {
			t.Errorf("unexpected snapshot for %s: %+v", eq.Name, history[0])
		}
	}
	if eq, _ := s.EquipmentByID(e3.ID); !eq.AssignedToUser(bob.ID) {
		t.Error("expected Bob's tablet to stay assigned")
	}

	unassigned := 0
	for _, m := range s.ListMovements() {
		if m.Type == model.MovementUnassigned {
			unassigned++
		}
	}
	if unassigned != 2 {
		t.Errorf("expected 2 unassigned movements, got %d", unassigned)
	}
}

func TestDeleteEquipment(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	eq := s.AddEquipment(ctx, model.EquipmentInput{Name: "Monitor", Type: "Monitor", SerialNumber: "M9"})
	if err := s.DeleteEquipment(ctx, eq.ID); err != nil {
		t.Fatalf("DeleteEquipment: %v", err)
	}
	if _, ok := s.EquipmentByID(eq.ID); ok {
		t.Error("expected equipment to be removed")
	}

	// History survives the deletion.
	history := s.MovementsForEquipment(eq.ID)
	if !equalTypes(history, model.MovementDeleted, model.MovementCreated) {
		t.Errorf("unexpected history %v", movementTypes(history))
	}
	if history[0].EquipmentName != "Monitor" {
		t.Errorf("expected name snapshot, got %q", history[0].EquipmentName)
	}
}

func TestMissingIDsAreNoOps(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	s.AddEquipment(ctx, model.EquipmentInput{Name: "Mouse", Type: "Mouse", SerialNumber: "MS1"})
	before := len(s.ListMovements())

	for i := 0; i < 2; i++ {
		if err := s.DeleteEquipment(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("DeleteEquipment: expected ErrNotFound, got %v", err)
		}
	}
	if _, err := s.UpdateEquipment(ctx, "missing", model.EquipmentPatch{Name: ptr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateEquipment: expected ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateUser(ctx, "missing", model.UserPatch{Name: ptr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateUser: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteUser(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteUser: expected ErrNotFound, got %v", err)
	}

	if after := len(s.ListMovements()); after != before {
		t.Errorf("expected ledger length %d, got %d", before, after)
	}
}

func TestCheckedMutationsRejectUnknownAssignee(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	ana := s.AddUser(ctx, model.UserInput{Name: "Ana"})

	if _, err := s.AddEquipmentChecked(ctx, model.EquipmentInput{Name: "Mouse", Type: "Mouse", SerialNumber: "MS1", AssignedTo: ptr("ghost")}); !errors.Is(err, ErrUnknownAssignee) {
		t.Fatalf("AddEquipmentChecked: expected ErrUnknownAssignee, got %v", err)
	}
	if n := len(s.ListEquipment()); n != 0 {
		t.Errorf("rejected add must not insert, got %d items", n)
	}

	e, err := s.AddEquipmentChecked(ctx, model.EquipmentInput{Name: "Mouse", Type: "Mouse", SerialNumber: "MS1", AssignedTo: &ana.ID})
	if err != nil {
		t.Fatalf("AddEquipmentChecked: %v", err)
	}
	before := len(s.ListMovements())

	if _, err := s.UpdateEquipmentChecked(ctx, e.ID, model.EquipmentPatch{AssignedTo: model.AssignTo("ghost")}); !errors.Is(err, ErrUnknownAssignee) {
		t.Errorf("UpdateEquipmentChecked: expected ErrUnknownAssignee, got %v", err)
	}
	if _, err := s.UpdateEquipmentChecked(ctx, "missing", model.EquipmentPatch{AssignedTo: model.AssignTo("ghost")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateEquipmentChecked on missing id: expected ErrNotFound, got %v", err)
	}
	if after := len(s.ListMovements()); after != before {
		t.Errorf("rejected updates must not log, ledger %d -> %d", before, after)
	}

	got, err := s.UpdateEquipmentChecked(ctx, e.ID, model.EquipmentPatch{AssignedTo: model.Unassign()})
	if err != nil || got.AssignedTo != nil {
		t.Errorf("unassigning should always be accepted, got %+v, %v", got, err)
	}
}

func TestUserChangesAreNotLogged(t *testing.T) {
	s, c := newTestService(t)
	ctx := context.Background()
	c.Advance(5 * time.Hour)

	u := s.AddUser(ctx, model.UserInput{Name: "Alice", Department: "IT", Email: "a@example.com", Extension: "12"})
	if !u.CreatedAt.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected creation date truncated to the day, got %v", u.CreatedAt)
	}

	got, err := s.UpdateUser(ctx, u.ID, model.UserPatch{Department: ptr("Legal")})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if got.Department != "Legal" || got.Name != "Alice" || got.Extension != "12" {
		t.Errorf("unexpected merge result %+v", got)
	}
	if n := len(s.ListMovements()); n != 0 {
		t.Errorf("expected no movements for user changes, got %d", n)
	}
}

func TestRenamedUserKeepsHistorySnapshot(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	u := s.AddUser(ctx, model.UserInput{Name: "Alice"})
	eq := s.AddEquipment(ctx, model.EquipmentInput{Name: "Laptop", Type: "Notebook", SerialNumber: "L1", AssignedTo: &u.ID})
	s.UpdateUser(ctx, u.ID, model.UserPatch{Name: ptr("Alice Smith")})

	history := s.MovementsForEquipment(eq.ID)
	if history[0].UserName != "Alice" {
		t.Errorf("expected snapshot to keep old name, got %q", history[0].UserName)
	}
}

func TestReadViews(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	u := s.AddUser(ctx, model.UserInput{Name: "Alice", Department: "Legal"})
	s.AddUser(ctx, model.UserInput{Name: "Bob", Department: "IT"})
	s.AddEquipment(ctx, model.EquipmentInput{Name: "Laptop", Type: "Notebook", SerialNumber: "L1", AssignedTo: &u.ID})
	s.AddEquipment(ctx, model.EquipmentInput{Name: "Dock", Type: "Other", SerialNumber: "D1"})
	s.AddEquipment(ctx, model.EquipmentInput{Name: "Spare Laptop", Type: "Notebook", SerialNumber: "L2", Status: model.StatusInactive})

	if got := s.UnassignedEquipment(); len(got) != 2 || got[0].Name != "Dock" {
		t.Errorf("unexpected unassigned list %+v", got)
	}
	if got := s.SearchUnassigned("notebook"); len(got) != 1 || got[0].Name != "Spare Laptop" {
		t.Errorf("unexpected unassigned search %+v", got)
	}
	if got := s.SearchUsers("it"); len(got) != 1 || got[0].Name != "Bob" {
		t.Errorf("unexpected user search %+v", got)
	}
	if got := s.ListUsers(); len(got) != 2 || got[0].Name != "Alice" {
		t.Errorf("expected users in registration order, got %+v", got)
	}

	sum := s.Summary()
	if sum.Users != 2 || sum.Equipment != 3 || sum.Assigned != 1 || sum.Unassigned != 2 {
		t.Errorf("unexpected summary %+v", sum)
	}
	if sum.ByStatus[model.StatusInactive] != 1 || sum.ByStatus[model.StatusActive] != 2 {
		t.Errorf("unexpected status counts %+v", sum.ByStatus)
	}
	if sum.Movements != 4 {
		t.Errorf("expected 4 movements, got %d", sum.Movements)
	}
}

func TestReadsDoNotAliasState(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	u := s.AddUser(ctx, model.UserInput{Name: "Alice"})
	eq := s.AddEquipment(ctx, model.EquipmentInput{Name: "Laptop", Type: "Notebook", SerialNumber: "L1", AssignedTo: &u.ID})

	*eq.AssignedTo = "someone-else"
	list := s.ListEquipment()
	*list[0].AssignedTo = "someone-else"

	if got := s.EquipmentForUser(u.ID); len(got) != 1 {
		t.Error("mutating a returned record changed stored state")
	}
}

func TestDefaultPrincipal(t *testing.T) {
	s := New(Options{})
	eq := s.AddEquipment(context.Background(), model.EquipmentInput{Name: "Mouse", Type: "Mouse", SerialNumber: "MS1"})

	history := s.MovementsForEquipment(eq.ID)
	if history[0].PerformedBy != DefaultPrincipal {
		t.Errorf("expected fallback principal, got %q", history[0].PerformedBy)
	}
	if history[0].ID == "" || history[0].ID == eq.ID {
		t.Errorf("expected a distinct generated movement id, got %q", history[0].ID)
	}
}

func TestSeedDemo(t *testing.T) {
	s, _ := newTestService(t)
	SeedDemo(context.Background(), s)

	sum := s.Summary()
	if sum.Users != 3 || sum.Equipment != 5 {
		t.Errorf("unexpected seeded summary %+v", sum)
	}
	// Five created plus three assigned.
	if sum.Movements != 8 {
		t.Errorf("expected 8 seeded movements, got %d", sum.Movements)
	}
}
