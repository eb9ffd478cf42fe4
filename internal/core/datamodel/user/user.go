package user

import "time"

// Role is the canonical role set. The agent/manager split mirrors the IT
// department structure: agents work tickets, managers see everything.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleAgent    Role = "agent"
	RoleEmployee Role = "employee"
)

func ValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleManager, RoleAgent, RoleEmployee:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	EmployeeID   string    `json:"employee_id" gorm:"column:employee_id"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"not null"`
	Mobile       string    `json:"mobile"`
	Department   string    `json:"department"`
	Designation  string    `json:"designation"`
	Role         Role      `json:"role" gorm:"not null;default:employee"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanViewAllTickets reports whether the user sees every ticket or only
// tickets they created themselves.
func (u *User) CanViewAllTickets() bool {
	switch u.Role {
	case RoleAdmin, RoleManager, RoleAgent:
		return true
	}
	return false
}

// CanSeeInternalComments hides agent-only notes from regular employees.
func (u *User) CanSeeInternalComments() bool {
	return u.Role != RoleEmployee
}
