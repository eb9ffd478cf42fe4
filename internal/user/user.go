package user

import (
	"errors"

	userDatamodel "github.com/mfirmanda/helpdesk-management/internal/core/datamodel/user"
)

// The account entity and role set live in the shared datamodel so the auth
// middleware can load a principal without importing this module.
type (
	User = userDatamodel.User
	Role = userDatamodel.Role
)

const (
	RoleAdmin    = userDatamodel.RoleAdmin
	RoleManager  = userDatamodel.RoleManager
	RoleAgent    = userDatamodel.RoleAgent
	RoleEmployee = userDatamodel.RoleEmployee
)

func ValidRole(r string) bool {
	return userDatamodel.ValidRole(r)
}

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrCannotDeleteSelf  = errors.New("cannot delete own account")
)
