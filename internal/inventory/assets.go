package inventory

import (
	"slices"
	"strings"

	"github.com/erazemk/inventario/internal/model"
)

// Assets maps equipment ids to equipment and remembers registration order.
// It is not safe for concurrent use; Service serializes access.
type Assets struct {
	byID  map[string]*model.Equipment
	order []string
}

// NewAssets creates an empty equipment store.
func NewAssets() *Assets {
	return &Assets{byID: make(map[string]*model.Equipment)}
}

func (a *Assets) insert(e model.Equipment) {
	e = cloneEquipment(e)
	a.byID[e.ID] = &e
	a.order = append(a.order, e.ID)
}

func (a *Assets) get(id string) (*model.Equipment, bool) {
	e, ok := a.byID[id]
	return e, ok
}

func (a *Assets) remove(id string) {
	if _, ok := a.byID[id]; !ok {
		return
	}
	delete(a.byID, id)
	a.order = slices.DeleteFunc(a.order, func(v string) bool { return v == id })
}

// each calls fn for every piece of equipment in registration order.
func (a *Assets) each(fn func(*model.Equipment)) {
	for _, id := range a.order {
		fn(a.byID[id])
	}
}

func (a *Assets) list(keep func(*model.Equipment) bool) []model.Equipment {
	out := []model.Equipment{}
	a.each(func(e *model.Equipment) {
		if keep(e) {
			out = append(out, cloneEquipment(*e))
		}
	})
	return out
}

func (a *Assets) count(keep func(*model.Equipment) bool) int {
	n := 0
	a.each(func(e *model.Equipment) {
		if keep(e) {
			n++
		}
	})
	return n
}

// matchEquipment reports whether name, type or serial number contains the
// lowercased query.
func matchEquipment(e *model.Equipment, q string) bool {
	return strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Type), q) ||
		strings.Contains(strings.ToLower(e.SerialNumber), q)
}

func cloneEquipment(e model.Equipment) model.Equipment {
	if e.AssignedTo != nil {
		id := *e.AssignedTo
		e.AssignedTo = &id
	}
	return e
}
