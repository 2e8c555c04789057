package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/inventario/internal/export"
	"github.com/erazemk/inventario/internal/inventory"
	"github.com/erazemk/inventario/internal/model"
)

// MovementsHandler serves the movement history, its CSV export and the
// dashboard summary.
type MovementsHandler struct {
	Inventory *inventory.Service
	Location  *time.Location
	Now       func() time.Time
}

type movementResponse struct {
	model.Movement
	TypeLabel string `json:"type_label"`
}

func movementResponses(list []model.Movement) []movementResponse {
	out := make([]movementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, movementResponse{Movement: m, TypeLabel: m.Type.Label()})
	}
	return out
}

// List handles GET /api/movements. q filters by equipment name,
// description or user name.
func (h *MovementsHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, movementResponses(h.Inventory.SearchMovements(r.URL.Query().Get("q"))))
}

// Export handles GET /api/movements/export and returns the movements of the
// last days days as a CSV attachment.
func (h *MovementsHandler) Export(w http.ResponseWriter, r *http.Request) {
	days := export.DefaultWindowDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	now := h.Now()
	movements := export.Window(h.Inventory.ListMovements(), now, days)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(now)+`"`)
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, movements, export.Options{Location: h.Location}); err != nil {
		slog.Error("failed to write movement export", "error", err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("movements exported", "user", claims.Username, "days", days, "rows", len(movements))
}

// Summary handles GET /api/summary.
func (h *MovementsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Inventory.Summary())
}
