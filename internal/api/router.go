package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/inventario/internal/inventory"
	"github.com/erazemk/inventario/internal/model"
)

// NewRouter creates the API router with all endpoints registered. loc is the
// time zone used for exported reports; nil means time.Local.
func NewRouter(db *sql.DB, jwtSecret string, inv *inventory.Service, loc *time.Location) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	operatorsHandler := &OperatorsHandler{DB: db}
	usersHandler := &UsersHandler{Inventory: inv}
	equipmentHandler := &EquipmentHandler{Inventory: inv}
	movementsHandler := &MovementsHandler{Inventory: inv, Location: loc, Now: time.Now}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Operators (admin only).
	mux.Handle("GET /api/operators", authMW(requireAdmin(http.HandlerFunc(operatorsHandler.List))))
	mux.Handle("POST /api/operators", authMW(requireAdmin(http.HandlerFunc(operatorsHandler.Create))))
	mux.Handle("GET /api/operators/{id}", authMW(requireAdmin(http.HandlerFunc(operatorsHandler.Get))))
	mux.Handle("PUT /api/operators/{id}", authMW(requireAdmin(http.HandlerFunc(operatorsHandler.Update))))
	mux.Handle("PUT /api/operators/{id}/password", authMW(requireAdmin(http.HandlerFunc(operatorsHandler.ResetPassword))))
	mux.Handle("DELETE /api/operators/{id}", authMW(requireAdmin(http.HandlerFunc(operatorsHandler.Delete))))

	// Users: read (all roles), write (manager+).
	mux.Handle("GET /api/users", authMW(http.HandlerFunc(usersHandler.List)))
	mux.Handle("POST /api/users", authMW(requireManager(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/departments", authMW(http.HandlerFunc(usersHandler.Departments)))
	mux.Handle("GET /api/users/{id}", authMW(http.HandlerFunc(usersHandler.Get)))
	mux.Handle("PUT /api/users/{id}", authMW(requireManager(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireManager(http.HandlerFunc(usersHandler.Delete))))
	mux.Handle("GET /api/users/{id}/equipment", authMW(http.HandlerFunc(usersHandler.Equipment)))
	mux.Handle("PUT /api/users/{id}/avatar", authMW(requireManager(http.HandlerFunc(usersHandler.UploadAvatar))))
	mux.Handle("GET /api/users/{id}/avatar", authMW(http.HandlerFunc(usersHandler.GetAvatar)))

	// Equipment: read (all roles), write (manager+).
	mux.Handle("GET /api/equipment", authMW(http.HandlerFunc(equipmentHandler.List)))
	mux.Handle("POST /api/equipment", authMW(requireManager(http.HandlerFunc(equipmentHandler.Create))))
	mux.Handle("GET /api/equipment/types", authMW(http.HandlerFunc(equipmentHandler.Types)))
	mux.Handle("GET /api/equipment/{id}", authMW(http.HandlerFunc(equipmentHandler.Get)))
	mux.Handle("PATCH /api/equipment/{id}", authMW(requireManager(http.HandlerFunc(equipmentHandler.Update))))
	mux.Handle("DELETE /api/equipment/{id}", authMW(requireManager(http.HandlerFunc(equipmentHandler.Delete))))
	mux.Handle("GET /api/equipment/{id}/movements", authMW(http.HandlerFunc(equipmentHandler.Movements)))

	// Movements and dashboard (all roles).
	mux.Handle("GET /api/movements", authMW(http.HandlerFunc(movementsHandler.List)))
	mux.Handle("GET /api/movements/export", authMW(http.HandlerFunc(movementsHandler.Export)))
	mux.Handle("GET /api/summary", authMW(http.HandlerFunc(movementsHandler.Summary)))

	return mux
}
