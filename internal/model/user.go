package model

import "time"

// User represents an employee that equipment can be assigned to.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Email      string    `json:"email"`
	Extension  string    `json:"extension,omitempty"`
	AvatarMIME string    `json:"avatar_mime,omitempty"`
	Avatar     []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserInput holds the fields supplied when registering a user.
type UserInput struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Extension  string `json:"extension"`
}

// UserPatch is a partial update. Nil fields are left untouched.
type UserPatch struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Email      *string `json:"email"`
	Extension  *string `json:"extension"`
}

// Apply merges the patch into u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Extension != nil {
		u.Extension = *p.Extension
	}
}

// Departments lists the departments offered by the registration form.
var Departments = []string{
	"Administration/HR",
	"Legal",
	"Business",
	"IT",
	"Other",
}
