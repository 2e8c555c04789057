package inventory

import (
	"slices"
	"strings"

	"github.com/erazemk/inventario/internal/model"
)

// Directory maps user ids to users and remembers registration order.
// It is not safe for concurrent use; Service serializes access.
type Directory struct {
	byID  map[string]*model.User
	order []string
}

// NewDirectory creates an empty user directory.
func NewDirectory() *Directory {
	return &Directory{byID: make(map[string]*model.User)}
}

func (d *Directory) insert(u model.User) {
	d.byID[u.ID] = &u
	d.order = append(d.order, u.ID)
}

func (d *Directory) get(id string) (*model.User, bool) {
	u, ok := d.byID[id]
	return u, ok
}

func (d *Directory) remove(id string) {
	if _, ok := d.byID[id]; !ok {
		return
	}
	delete(d.byID, id)
	d.order = slices.DeleteFunc(d.order, func(v string) bool { return v == id })
}

// name is a NameLookup over the directory.
func (d *Directory) name(id string) (string, bool) {
	u, ok := d.byID[id]
	if !ok {
		return "", false
	}
	return u.Name, true
}

func (d *Directory) list(keep func(*model.User) bool) []model.User {
	out := []model.User{}
	for _, id := range d.order {
		if u := d.byID[id]; keep(u) {
			out = append(out, *u)
		}
	}
	return out
}

func (d *Directory) len() int {
	return len(d.byID)
}

// matchUser reports whether the user's name or department contains the
// lowercased query.
func matchUser(u *model.User, q string) bool {
	return strings.Contains(strings.ToLower(u.Name), q) ||
		strings.Contains(strings.ToLower(u.Department), q)
}
