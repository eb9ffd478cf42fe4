package user

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Repository defines the data access methods for user accounts
type Repository interface {
	Create(u *User) error
	GetByID(id string) (*User, error)
	GetByUsername(username string) (*User, error)
	List(query ListUsersQuery) ([]*User, int64, error)
	All() ([]*User, error)
	Update(u *User) error
	Delete(id string) error
}

// Service handles account management business logic
type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateUser provisions an account with a hashed password.
func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("user validation failed", "error", err, "username", dto.Username)
		return nil, err
	}

	if existing, err := s.repo.GetByUsername(dto.Username); err == nil && existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}

	now := time.Now()
	u := &User{
		ID:           uuid.New().String(),
		EmployeeID:   dto.EmployeeID,
		Username:     dto.Username,
		PasswordHash: hash,
		Name:         dto.Name,
		Email:        dto.Email,
		Mobile:       dto.Mobile,
		Department:   dto.Department,
		Designation:  dto.Designation,
		Role:         Role(dto.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}

func (s *Service) GetUser(id string) (*User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetByUsername(username string) (*User, error) {
	return s.repo.GetByUsername(username)
}

func (s *Service) ListUsers(query ListUsersQuery) ([]*User, int64, error) {
	query.Normalize()
	return s.repo.List(query)
}

// AllUsers returns every account, for the CSV export.
func (s *Service) AllUsers() ([]*User, error) {
	return s.repo.All()
}

// UpdateUser applies a partial update. The password is re-hashed only when
// a new one is supplied.
func (s *Service) UpdateUser(id string, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("user update validation failed", "error", err, "user_id", id)
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.EmployeeID != nil {
		u.EmployeeID = *dto.EmployeeID
	}
	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Email != nil {
		u.Email = *dto.Email
	}
	if dto.Mobile != nil {
		u.Mobile = *dto.Mobile
	}
	if dto.Department != nil {
		u.Department = *dto.Department
	}
	if dto.Designation != nil {
		u.Designation = *dto.Designation
	}
	if dto.Role != nil {
		u.Role = Role(*dto.Role)
	}
	if dto.Password != nil {
		hash, err := s.HashPassword(*dto.Password)
		if err != nil {
			s.logger.Error("failed to hash password", "error", err, "user_id", id)
			return nil, err
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// DeleteUser removes an account. Admins cannot remove themselves.
func (s *Service) DeleteUser(id, actorID string) error {
	if id == actorID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return err
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", actorID)
	return nil
}

// ImportCSV bulk-creates accounts from a parsed CSV payload. The whole file
// is validated up front; creation is then per-row with a partial-failure
// report rather than all-or-nothing.
func (s *Service) ImportCSV(dtos []CreateUserDTO) (created int, failures []string) {
	for _, dto := range dtos {
		if _, err := s.CreateUser(dto); err != nil {
			failures = append(failures, dto.Username+": "+err.Error())
			continue
		}
		created++
	}

	s.logger.Info("csv import finished", "created", created, "failed", len(failures))
	return created, failures
}
