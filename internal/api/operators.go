package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/store"
)

// OperatorsHandler handles operator account management (admin only).
type OperatorsHandler struct {
	DB *sql.DB
}

type createOperatorRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateOperatorRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func operatorID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// activeOperator loads an operator and writes an error response when it does
// not exist or has been deleted.
func (h *OperatorsHandler) activeOperator(w http.ResponseWriter, r *http.Request, id int64) *model.Operator {
	op, err := store.GetOperator(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get operator", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get operator")
		return nil
	}
	if op == nil || op.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "operator not found")
		return nil
	}
	return op
}

// List handles GET /api/operators.
func (h *OperatorsHandler) List(w http.ResponseWriter, r *http.Request) {
	operators, err := store.ListOperators(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list operators", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list operators")
		return
	}
	if operators == nil {
		operators = []model.Operator{}
	}
	jsonResponse(w, http.StatusOK, operators)
}

// Create handles POST /api/operators.
func (h *OperatorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOperatorRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" || req.Role == "" {
		jsonError(w, http.StatusBadRequest, "username, password, and role required")
		return
	}
	if !model.ValidRole(req.Role) {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	op, err := store.CreateOperator(r.Context(), h.DB, req.Username, strings.TrimSpace(req.Name), string(hash), req.Role)
	if err != nil {
		jsonError(w, http.StatusConflict, "username already exists")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("operator created", "user", claims.Username, "new_operator", op.Username, "role", op.Role)
	jsonResponse(w, http.StatusCreated, op)
}

// Get handles GET /api/operators/{id}.
func (h *OperatorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := operatorID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid operator id")
		return
	}

	if op := h.activeOperator(w, r, id); op != nil {
		jsonResponse(w, http.StatusOK, op)
	}
}

// Update handles PUT /api/operators/{id}.
func (h *OperatorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := operatorID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid operator id")
		return
	}

	var req updateOperatorRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role != nil && !model.ValidRole(*req.Role) {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}

	op := h.activeOperator(w, r, id)
	if op == nil {
		return
	}

	claims := GetClaims(r.Context())
	if claims.OperatorID == id && req.Role != nil && *req.Role != op.Role {
		jsonError(w, http.StatusBadRequest, "cannot change your own role")
		return
	}

	name, role := op.Name, op.Role
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		role = *req.Role
	}

	if err := store.UpdateOperator(r.Context(), h.DB, id, name, role); err != nil {
		slog.Error("failed to update operator", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update operator")
		return
	}

	updated, err := store.GetOperator(r.Context(), h.DB, id)
	if err != nil || updated == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get operator")
		return
	}
	slog.Info("operator updated", "user", claims.Username, "target_operator", updated.Username, "role", updated.Role)
	jsonResponse(w, http.StatusOK, updated)
}

// ResetPassword handles PUT /api/operators/{id}/password.
func (h *OperatorsHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := operatorID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid operator id")
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == "" {
		jsonError(w, http.StatusBadRequest, "password required")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	op := h.activeOperator(w, r, id)
	if op == nil {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := store.UpdateOperatorPassword(r.Context(), h.DB, id, string(hash)); err != nil {
		slog.Error("failed to reset password", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("operator password reset", "user", claims.Username, "target_operator", op.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password reset"})
}

// Delete handles DELETE /api/operators/{id}.
func (h *OperatorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := operatorID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid operator id")
		return
	}

	claims := GetClaims(r.Context())
	if claims != nil && claims.OperatorID == id {
		jsonError(w, http.StatusBadRequest, "cannot delete yourself")
		return
	}

	op := h.activeOperator(w, r, id)
	if op == nil {
		return
	}

	if err := store.DeleteOperator(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete operator", "error", err)
		jsonError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete operator %s", op.Username))
		return
	}

	slog.Info("operator deleted", "user", claims.Username, "deleted_operator", op.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "operator deleted"})
}
