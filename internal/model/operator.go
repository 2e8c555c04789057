package model

import (
	"fmt"
	"time"
)

// Operator is an account that can log in and manage the inventory. Operators
// are the principals recorded on movements; they are separate from users.
type Operator struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// DisplayName returns the name shown on movements.
func (o *Operator) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Username
}

// Roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

var roleLevels = map[string]int{
	RoleAdmin:   3,
	RoleManager: 2,
	RoleViewer:  1,
}

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	level, ok := roleLevels[role]
	if !ok {
		return false
	}
	return level >= roleLevels[minimum] && roleLevels[minimum] > 0
}

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	_, ok := roleLevels[role]
	return ok
}

// MinPasswordLength is the shortest accepted operator password.
const MinPasswordLength = 8

// ValidatePassword checks password strength requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
