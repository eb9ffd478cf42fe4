package setting

import (
	"log/slog"
	"time"
)

// Repository defines the data access methods for settings
type Repository interface {
	Get(key string) (*Setting, error)
	List(category string) ([]*Setting, error)
	Upsert(s *Setting) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(key string) (*Setting, error) {
	return s.repo.Get(key)
}

// GetOr returns the stored value for key, or fallback when the key is
// missing or unreadable.
func (s *Service) GetOr(key, fallback string) string {
	st, err := s.repo.Get(key)
	if err != nil {
		return fallback
	}
	return st.Value
}

func (s *Service) List(category string) ([]*Setting, error) {
	return s.repo.List(category)
}

// Upsert writes a setting, overwriting any existing value for the key.
func (s *Service) Upsert(dto UpsertSettingDTO) (*Setting, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	st := &Setting{
		Key:         dto.Key,
		Value:       dto.Value,
		Category:    dto.Category,
		Description: dto.Description,
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Upsert(st); err != nil {
		s.logger.Error("failed to upsert setting", "error", err, "key", dto.Key)
		return nil, err
	}

	s.logger.Info("setting updated", "key", st.Key, "category", st.Category)
	return st, nil
}

// SeedDefaults inserts any default settings that do not exist yet. Existing
// values are left alone.
func (s *Service) SeedDefaults() error {
	for _, def := range Defaults {
		if _, err := s.repo.Get(def.Key); err == nil {
			continue
		}
		def.UpdatedAt = time.Now()
		if err := s.repo.Upsert(&def); err != nil {
			return err
		}
	}
	return nil
}
