package api

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/erazemk/inventario/internal/imaging"
	"github.com/erazemk/inventario/internal/inventory"
	"github.com/erazemk/inventario/internal/model"
)

// UsersHandler handles the employee directory.
type UsersHandler struct {
	Inventory *inventory.Service
}

type userResponse struct {
	model.User
	EquipmentCount int `json:"equipment_count"`
}

func (h *UsersHandler) response(u model.User) userResponse {
	return userResponse{User: u, EquipmentCount: h.Inventory.EquipmentCountForUser(u.ID)}
}

func validateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// List handles GET /api/users. An optional q filters by name or department.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users := h.Inventory.SearchUsers(r.URL.Query().Get("q"))
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, h.response(u))
	}
	jsonResponse(w, http.StatusOK, out)
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.UserInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Department = strings.TrimSpace(req.Department)
	req.Extension = strings.TrimSpace(req.Extension)

	if req.Name == "" || req.Email == "" || req.Department == "" {
		jsonError(w, http.StatusBadRequest, "name, email, and department required")
		return
	}
	if !validateEmail(req.Email) {
		jsonError(w, http.StatusBadRequest, "invalid email")
		return
	}

	u := h.Inventory.AddUser(r.Context(), req)

	claims := GetClaims(r.Context())
	slog.Info("user created", "user", claims.Username, "user_id", u.ID, "name", u.Name)
	jsonResponse(w, http.StatusCreated, h.response(u))
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := h.Inventory.UserByID(r.PathValue("id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	jsonResponse(w, http.StatusOK, h.response(u))
}

// Update handles PUT /api/users/{id}. Only the supplied fields change.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UserPatch
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, f := range []*string{req.Name, req.Email, req.Department, req.Extension} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if (req.Name != nil && *req.Name == "") ||
		(req.Email != nil && *req.Email == "") ||
		(req.Department != nil && *req.Department == "") {
		jsonError(w, http.StatusBadRequest, "name, email, and department cannot be empty")
		return
	}
	if req.Email != nil && !validateEmail(*req.Email) {
		jsonError(w, http.StatusBadRequest, "invalid email")
		return
	}

	u, err := h.Inventory.UpdateUser(r.Context(), r.PathValue("id"), req)
	if err != nil {
		inventoryError(w, err, "user")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("user updated", "user", claims.Username, "user_id", u.ID)
	jsonResponse(w, http.StatusOK, h.response(u))
}

// Delete handles DELETE /api/users/{id}. Equipment held by the user is
// unassigned first.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Inventory.DeleteUser(r.Context(), id); err != nil {
		inventoryError(w, err, "user")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("user deleted", "user", claims.Username, "user_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// Equipment handles GET /api/users/{id}/equipment.
func (h *UsersHandler) Equipment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.Inventory.UserByID(id); !ok {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	jsonResponse(w, http.StatusOK, equipmentResponses(h.Inventory, h.Inventory.EquipmentForUser(id)))
}

// Departments handles GET /api/users/departments.
func (h *UsersHandler) Departments(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, model.Departments)
}

// UploadAvatar handles PUT /api/users/{id}/avatar.
func (h *UsersHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.Inventory.UserByID(id); !ok {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "avatar file required")
		return
	}
	defer file.Close()

	result, err := imaging.Avatar(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Inventory.SetUserAvatar(r.Context(), id, result.Data, result.MIME); err != nil {
		inventoryError(w, err, "user")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("user avatar uploaded", "user", claims.Username, "user_id", id, "bytes", len(result.Data))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "avatar uploaded"})
}

// GetAvatar handles GET /api/users/{id}/avatar.
func (h *UsersHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	data, mime, ok := h.Inventory.UserAvatar(r.PathValue("id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "no avatar")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(data)
}
