package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Service performs authentication business logic
type Service struct {
	userRepo UserRepository
	sessions *SessionManager
	logger   *slog.Logger
}

func NewService(userRepo UserRepository, sessions *SessionManager, logger *slog.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *Service) Sessions() *SessionManager {
	return s.sessions
}

// Authenticate validates credentials and returns the user plus a session token.
func (s *Service) Authenticate(dto LoginDTO) (*User, string, error) {
	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	u, err := s.userRepo.GetByUsername(dto.Username)
	if err != nil {
		// same error for unknown user and bad password
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Generate(u.ID, u.Username)
	if err != nil {
		s.logger.Error("failed to generate session token", "error", err, "user_id", u.ID)
		return nil, "", err
	}

	s.logger.Info("user authenticated", "user_id", u.ID, "username", u.Username)
	return u, token, nil
}

// ResolveSession validates a session token and loads the principal.
func (s *Service) ResolveSession(token string) (*User, error) {
	claims, err := s.sessions.Validate(token)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidSession
	}

	return u, nil
}
