package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is an access profile assigned to a user account.
type Role string

// Known roles. Driver and Manager are legacy tags tolerated by the type but
// not used by any current flow.
const (
	RoleAdministrator Role = "administrator"
	RoleUser          Role = "user"
	RoleDriver        Role = "driver"
	RoleManager       Role = "manager"
)

// Actor is the resolved identity of the person operating the console.
// Sector comes from the personnel roster via the EmployeeID reference and is
// re-resolved on every request, never cached across a session.
type Actor struct {
	ID          uuid.UUID  `json:"id"`
	Login       string     `json:"login"`
	DisplayName string     `json:"display_name"`
	Role        Role       `json:"role"`
	EmployeeID  *uuid.UUID `json:"employee_id,omitempty"`
	Sector      string     `json:"sector,omitempty"`
}

// HasRole reports whether the actor holds any of the given roles.
func (a Actor) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// IsPrivilegedSector reports whether the actor belongs to the designated
// oversight sector. Members of that sector get administrator-equivalent
// visibility and approval rights over requests.
func (a Actor) IsPrivilegedSector(privileged string) bool {
	return privileged != "" && a.Sector == privileged
}

// CanApprove reports whether the actor may see and resolve pending requests:
// administrators and members of the privileged sector.
func (a Actor) CanApprove(privilegedSector string) bool {
	return a.HasRole(RoleAdministrator) || a.IsPrivilegedSector(privilegedSector)
}

// UserStatus marks a user account as usable or disabled.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User is a console account. PasswordHash is an opaque one-way digest; the
// auth service only ever compares it, never inverts it.
// EmployeeID links the account to the personnel roster for sector resolution.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Login        string     `json:"login"`
	Name         string     `json:"name"`
	CPF          string     `json:"cpf,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	PhotoURL     string     `json:"photo_url,omitempty"`
	PasswordHash string     `json:"password_hash"`
	EmployeeID   *uuid.UUID `json:"employee_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Version      int64      `json:"-"`
}

// Employee is a personnel roster entry. Sector is the authoritative source
// for an actor's sector affiliation.
type Employee struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Registration string    `json:"registration"`
	Sector       string    `json:"sector"`
	Position     string    `json:"position"`
	Contact      string    `json:"contact,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int64     `json:"-"`
}
