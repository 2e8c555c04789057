// Package inventory holds the in-memory users, equipment and movement ledger
// of one application session. Every equipment change is recorded in the
// ledger as one or more movements attributed to the acting principal.
package inventory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/inventario/internal/model"
)

// ErrNotFound is returned when updating or deleting an id that does not
// exist. State is left unchanged and no movement is recorded.
var ErrNotFound = errors.New("inventory: not found")

// ErrUnknownAssignee is returned by the checked equipment mutations when the
// requested assignee is not in the directory.
var ErrUnknownAssignee = errors.New("inventory: unknown assignee")

// DefaultPrincipal is recorded on movements when no identity is configured.
const DefaultPrincipal = "System"

// Identity resolves the display name of whoever is acting in ctx.
type Identity interface {
	Principal(ctx context.Context) string
}

type staticIdentity string

func (s staticIdentity) Principal(context.Context) string { return string(s) }

// Options configures a Service. Zero values select the defaults.
type Options struct {
	Identity Identity
	Now      func() time.Time
	NewID    func() string
}

// Service owns the user directory, the equipment store and the movement
// ledger. Mutations are serialized so that each read-diff-append-commit
// sequence completes before the next begins.
type Service struct {
	mu        sync.Mutex
	users     *Directory
	equipment *Assets
	ledger    *Ledger

	identity Identity
	now      func() time.Time
	newID    func() string
}

// New creates an empty inventory.
func New(opts Options) *Service {
	if opts.Identity == nil {
		opts.Identity = staticIdentity(DefaultPrincipal)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{
		users:     NewDirectory(),
		equipment: NewAssets(),
		ledger:    NewLedger(opts.NewID, opts.Now),
		identity:  opts.Identity,
		now:       opts.Now,
		newID:     opts.NewID,
	}
}

// AddUser registers a user. User changes are not recorded in the ledger.
func (s *Service) AddUser(ctx context.Context, in model.UserInput) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := model.User{
		ID:         s.newID(),
		Name:       in.Name,
		Department: in.Department,
		Email:      in.Email,
		Extension:  in.Extension,
		CreatedAt:  day(s.now()),
	}
	s.users.insert(u)
	return u
}

// UpdateUser merges patch into the user with the given id.
func (s *Service) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.get(id)
	if !ok {
		return model.User{}, ErrNotFound
	}
	patch.Apply(u)
	return *u, nil
}

// SetUserAvatar replaces the user's avatar image.
func (s *Service) SetUserAvatar(ctx context.Context, id string, data []byte, mime string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.get(id)
	if !ok {
		return ErrNotFound
	}
	u.Avatar = data
	u.AvatarMIME = mime
	return nil
}

// DeleteUser removes a user. Every piece of equipment assigned to the user
// is unassigned first, each with its own Unassigned movement.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.get(id)
	if !ok {
		return ErrNotFound
	}
	principal := s.identity.Principal(ctx)

	var drafts []model.Movement
	var affected []*model.Equipment
	s.equipment.each(func(e *model.Equipment) {
		if e.AssignedToUser(id) {
			drafts = append(drafts, DeriveUserDeleted(*e, *u, principal))
			affected = append(affected, e)
		}
	})

	s.ledger.Append(drafts...)
	for _, e := range affected {
		e.AssignedTo = nil
	}
	s.users.remove(id)
	return nil
}

// AddEquipment registers equipment and records a Created movement, plus an
// Assigned movement when it starts out with an assignee.
func (s *Service) AddEquipment(ctx context.Context, in model.EquipmentInput) model.Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addEquipment(ctx, in)
}

// AddEquipmentChecked is AddEquipment that rejects an assignee missing from
// the directory. The check and the insert happen under one lock.
func (s *Service) AddEquipmentChecked(ctx context.Context, in model.EquipmentInput) (model.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.knownUser(in.AssignedTo) {
		return model.Equipment{}, ErrUnknownAssignee
	}
	return s.addEquipment(ctx, in), nil
}

func (s *Service) addEquipment(ctx context.Context, in model.EquipmentInput) model.Equipment {
	status := in.Status
	if status == "" {
		status = model.StatusActive
	}
	e := cloneEquipment(model.Equipment{
		ID:           s.newID(),
		Name:         in.Name,
		Type:         in.Type,
		SerialNumber: in.SerialNumber,
		AssignedTo:   in.AssignedTo,
		Status:       status,
		CreatedAt:    day(s.now()),
	})

	s.ledger.Append(DeriveCreate(e, s.identity.Principal(ctx), s.users.name)...)
	s.equipment.insert(e)
	return cloneEquipment(e)
}

// UpdateEquipment merges patch into the equipment and records the derived
// movements. The merged record is committed even when nothing was derived.
func (s *Service) UpdateEquipment(ctx context.Context, id string, patch model.EquipmentPatch) (model.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateEquipment(ctx, id, patch)
}

// UpdateEquipmentChecked is UpdateEquipment that rejects a reassignment to a
// user missing from the directory. Unassigning is always accepted.
func (s *Service) UpdateEquipmentChecked(ctx context.Context, id string, patch model.EquipmentPatch) (model.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.equipment.get(id); !ok {
		return model.Equipment{}, ErrNotFound
	}
	if patch.AssignedTo.Set && !s.knownUser(patch.AssignedTo.UserID) {
		return model.Equipment{}, ErrUnknownAssignee
	}
	return s.updateEquipment(ctx, id, patch)
}

func (s *Service) updateEquipment(ctx context.Context, id string, patch model.EquipmentPatch) (model.Equipment, error) {
	e, ok := s.equipment.get(id)
	if !ok {
		return model.Equipment{}, ErrNotFound
	}

	s.ledger.Append(DeriveUpdate(*e, patch, s.identity.Principal(ctx), s.users.name)...)
	patch.Apply(e)
	return cloneEquipment(*e), nil
}

// knownUser reports whether id is nil or names a user in the directory.
func (s *Service) knownUser(id *string) bool {
	if id == nil {
		return true
	}
	_, ok := s.users.get(*id)
	return ok
}

// DeleteEquipment records a Deleted movement and removes the equipment.
func (s *Service) DeleteEquipment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.equipment.get(id)
	if !ok {
		return ErrNotFound
	}

	s.ledger.Append(DeriveDelete(*e, s.identity.Principal(ctx))...)
	s.equipment.remove(id)
	return nil
}

// ListUsers returns all users in registration order.
func (s *Service) ListUsers() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.list(func(*model.User) bool { return true })
}

// SearchUsers returns users whose name or department contains query.
func (s *Service) SearchUsers(query string) []model.User {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.list(func(u *model.User) bool { return q == "" || matchUser(u, q) })
}

// UserByID returns the user with the given id.
func (s *Service) UserByID(id string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.get(id)
	if !ok {
		return model.User{}, false
	}
	return *u, true
}

// UserAvatar returns the user's avatar image and MIME type.
func (s *Service) UserAvatar(id string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.get(id)
	if !ok || len(u.Avatar) == 0 {
		return nil, "", false
	}
	return u.Avatar, u.AvatarMIME, true
}

// ListEquipment returns all equipment in registration order.
func (s *Service) ListEquipment() []model.Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equipment.list(func(*model.Equipment) bool { return true })
}

// EquipmentByID returns the equipment with the given id.
func (s *Service) EquipmentByID(id string) (model.Equipment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.equipment.get(id)
	if !ok {
		return model.Equipment{}, false
	}
	return cloneEquipment(*e), true
}

// EquipmentForUser returns the equipment assigned to userID.
func (s *Service) EquipmentForUser(userID string) []model.Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equipment.list(func(e *model.Equipment) bool { return e.AssignedToUser(userID) })
}

// EquipmentCountForUser returns how many pieces of equipment userID holds.
func (s *Service) EquipmentCountForUser(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equipment.count(func(e *model.Equipment) bool { return e.AssignedToUser(userID) })
}

// UnassignedEquipment returns equipment that nobody holds.
func (s *Service) UnassignedEquipment() []model.Equipment {
	return s.SearchUnassigned("")
}

// SearchUnassigned returns unassigned equipment whose name, type or serial
// number contains query.
func (s *Service) SearchUnassigned(query string) []model.Equipment {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equipment.list(func(e *model.Equipment) bool {
		return !e.Assigned() && (q == "" || matchEquipment(e, q))
	})
}

// ListMovements returns the whole ledger, newest first.
func (s *Service) ListMovements() []model.Movement {
	return s.ledger.All()
}

// MovementsForEquipment returns one equipment's history, newest first.
func (s *Service) MovementsForEquipment(equipmentID string) []model.Movement {
	return s.ledger.ByEquipment(equipmentID)
}

// SearchMovements returns movements matching query, newest first.
func (s *Service) SearchMovements(query string) []model.Movement {
	return s.ledger.Search(query)
}

// MovementsSince returns movements recorded at or after t, newest first.
func (s *Service) MovementsSince(t time.Time) []model.Movement {
	return s.ledger.Since(t)
}

// Summary holds the dashboard counts.
type Summary struct {
	Users      int                           `json:"users"`
	Equipment  int                           `json:"equipment"`
	Assigned   int                           `json:"assigned"`
	Unassigned int                           `json:"unassigned"`
	ByStatus   map[model.EquipmentStatus]int `json:"by_status"`
	Movements  int                           `json:"movements"`
}

// Summary returns the current dashboard counts.
func (s *Service) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		Users:     s.users.len(),
		ByStatus:  make(map[model.EquipmentStatus]int),
		Movements: s.ledger.Len(),
	}
	s.equipment.each(func(e *model.Equipment) {
		sum.Equipment++
		if e.Assigned() {
			sum.Assigned++
		} else {
			sum.Unassigned++
		}
		sum.ByStatus[e.Status]++
	})
	return sum
}

// day truncates t to midnight in its own location.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
