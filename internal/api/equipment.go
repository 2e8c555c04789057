package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/inventario/internal/inventory"
	"github.com/erazemk/inventario/internal/model"
)

// EquipmentHandler handles equipment endpoints.
type EquipmentHandler struct {
	Inventory *inventory.Service
}

type equipmentResponse struct {
	model.Equipment
	AssignedName string `json:"assigned_name,omitempty"`
}

func newEquipmentResponse(inv *inventory.Service, e model.Equipment) equipmentResponse {
	resp := equipmentResponse{Equipment: e}
	if e.AssignedTo != nil {
		if u, ok := inv.UserByID(*e.AssignedTo); ok {
			resp.AssignedName = u.Name
		}
	}
	return resp
}

func equipmentResponses(inv *inventory.Service, list []model.Equipment) []equipmentResponse {
	out := make([]equipmentResponse, 0, len(list))
	for _, e := range list {
		out = append(out, newEquipmentResponse(inv, e))
	}
	return out
}

// equipmentError maps a failed equipment mutation to a response.
func equipmentError(w http.ResponseWriter, err error) {
	if errors.Is(err, inventory.ErrUnknownAssignee) {
		jsonError(w, http.StatusBadRequest, "assigned user does not exist")
		return
	}
	inventoryError(w, err, "equipment")
}

// normalizeAssignee treats a blank id as "nobody".
func normalizeAssignee(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}

// List handles GET /api/equipment. unassigned=1 restricts the list to
// equipment nobody holds; q filters by name, type or serial number.
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := strings.ToLower(strings.TrimSpace(query.Get("q")))

	if query.Get("unassigned") == "1" || query.Get("unassigned") == "true" {
		jsonResponse(w, http.StatusOK, equipmentResponses(h.Inventory, h.Inventory.SearchUnassigned(q)))
		return
	}

	var list []model.Equipment
	for _, e := range h.Inventory.ListEquipment() {
		if q == "" ||
			strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Type), q) ||
			strings.Contains(strings.ToLower(e.SerialNumber), q) {
			list = append(list, e)
		}
	}
	jsonResponse(w, http.StatusOK, equipmentResponses(h.Inventory, list))
}

// Types handles GET /api/equipment/types.
func (h *EquipmentHandler) Types(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, model.EquipmentTypes)
}

// Create handles POST /api/equipment.
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.EquipmentInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.TrimSpace(req.Type)
	req.SerialNumber = strings.TrimSpace(req.SerialNumber)
	req.AssignedTo = normalizeAssignee(req.AssignedTo)

	if req.Name == "" || req.Type == "" || req.SerialNumber == "" {
		jsonError(w, http.StatusBadRequest, "name, type, and serial number required")
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	e, err := h.Inventory.AddEquipmentChecked(r.Context(), req)
	if err != nil {
		equipmentError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("equipment created", "user", claims.Username, "equipment_id", e.ID, "name", e.Name, "serial_number", e.SerialNumber)
	jsonResponse(w, http.StatusCreated, newEquipmentResponse(h.Inventory, e))
}

// Get handles GET /api/equipment/{id}.
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, ok := h.Inventory.EquipmentByID(r.PathValue("id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	jsonResponse(w, http.StatusOK, newEquipmentResponse(h.Inventory, e))
}

// Update handles PATCH /api/equipment/{id}. Absent fields are left alone;
// "assigned_to": null unassigns the equipment.
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.EquipmentPatch
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, f := range []*string{req.Name, req.Type, req.SerialNumber} {
		if f == nil {
			continue
		}
		*f = strings.TrimSpace(*f)
		if *f == "" {
			jsonError(w, http.StatusBadRequest, "name, type, and serial number cannot be empty")
			return
		}
	}
	if req.Status != nil && !req.Status.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if req.AssignedTo.Set {
		req.AssignedTo.UserID = normalizeAssignee(req.AssignedTo.UserID)
	}

	e, err := h.Inventory.UpdateEquipmentChecked(r.Context(), r.PathValue("id"), req)
	if err != nil {
		equipmentError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("equipment updated", "user", claims.Username, "equipment_id", e.ID, "name", e.Name)
	jsonResponse(w, http.StatusOK, newEquipmentResponse(h.Inventory, e))
}

// Delete handles DELETE /api/equipment/{id}.
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Inventory.DeleteEquipment(r.Context(), id); err != nil {
		inventoryError(w, err, "equipment")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("equipment deleted", "user", claims.Username, "equipment_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "equipment deleted"})
}

// Movements handles GET /api/equipment/{id}/movements. The history of
// deleted equipment stays readable.
func (h *EquipmentHandler) Movements(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Inventory.MovementsForEquipment(r.PathValue("id")))
}
