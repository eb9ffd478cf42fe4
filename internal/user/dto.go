package user

import (
	"fmt"
	"strings"

	"github.com/mfirmanda/helpdesk-management/internal"
)

// CreateUserDTO is the admin-facing payload for provisioning an account.
type CreateUserDTO struct {
	EmployeeID  string `json:"employee_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
	Role        string `json:"role"`
}

func (dto CreateUserDTO) Validate() error {
	if dto.Username == "" {
		return internal.NewValidationFieldError("username", "username is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Password) < 8 {
		return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if dto.Email == "" || !strings.Contains(dto.Email, "@") {
		return internal.NewValidationFieldError("email", "a valid email is required", internal.ErrCodeValidationFailed)
	}
	if dto.Role == "" {
		return internal.NewValidationFieldError("role", "role is required", internal.ErrCodeValidationFailed)
	}
	if !ValidRole(dto.Role) {
		return internal.NewValidationFieldError("role", fmt.Sprintf("invalid role %q", dto.Role), internal.ErrCodeInvalidRole)
	}
	return nil
}

// UpdateUserDTO carries a partial update; nil fields are left untouched.
// Password, when present, is re-hashed before storage.
type UpdateUserDTO struct {
	EmployeeID  *string `json:"employee_id,omitempty"`
	Password    *string `json:"password,omitempty"`
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Mobile      *string `json:"mobile,omitempty"`
	Department  *string `json:"department,omitempty"`
	Designation *string `json:"designation,omitempty"`
	Role        *string `json:"role,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.Password != nil && len(*dto.Password) < 8 {
		return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Email != nil && !strings.Contains(*dto.Email, "@") {
		return internal.NewValidationFieldError("email", "a valid email is required", internal.ErrCodeValidationFailed)
	}
	if dto.Role != nil && !ValidRole(*dto.Role) {
		return internal.NewValidationFieldError("role", fmt.Sprintf("invalid role %q", *dto.Role), internal.ErrCodeInvalidRole)
	}
	return nil
}

type ListUsersQuery struct {
	Department string
	Role       string
	Page       int
	Limit      int
}

func (q *ListUsersQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

func (q ListUsersQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
