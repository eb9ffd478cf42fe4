package auth_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/mfirmanda/helpdesk-management/internal/auth"
	userDatamodel "github.com/mfirmanda/helpdesk-management/internal/core/datamodel/user"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

type mockUserRepository struct {
	byUsername map[string]*auth.User
	byID       map[string]*auth.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		byUsername: make(map[string]*auth.User),
		byID:       make(map[string]*auth.User),
	}
}

func (m *mockUserRepository) add(u *auth.User) {
	m.byUsername[u.Username] = u
	m.byID[u.ID] = u
}

func (m *mockUserRepository) GetByUsername(username string) (*auth.User, error) {
	u, ok := m.byUsername[username]
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

func (m *mockUserRepository) GetByID(id string) (*auth.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrInvalidSession
	}
	return u, nil
}

const testSecret = "test-secret-which-is-long-enough-to-sign"

var _ = Describe("AuthService", func() {
	var (
		svc      *auth.Service
		mockRepo *mockUserRepository
		sessions *auth.SessionManager
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		sessions = auth.NewSessionManager(testSecret, time.Hour)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = auth.NewService(mockRepo, sessions, logger)

		hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
		Expect(err).ToNot(HaveOccurred())

		mockRepo.add(&auth.User{
			ID:           "user-1",
			Username:     "jdoe",
			PasswordHash: string(hash),
			Role:         userDatamodel.RoleEmployee,
		})
	})

	Describe("Authenticate", func() {
		It("should return the user and a token for valid credentials", func() {
			u, token, err := svc.Authenticate(auth.LoginDTO{
				Username: "jdoe", Password: "correct-horse",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.ID).To(Equal("user-1"))
			Expect(token).ToNot(BeEmpty())
		})

		It("should return the same error for a wrong password and an unknown user", func() {
			_, _, badPassword := svc.Authenticate(auth.LoginDTO{
				Username: "jdoe", Password: "wrong",
			})
			_, _, unknownUser := svc.Authenticate(auth.LoginDTO{
				Username: "ghost", Password: "whatever",
			})

			Expect(badPassword).To(Equal(auth.ErrInvalidCredentials))
			Expect(unknownUser).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an empty payload", func() {
			_, _, err := svc.Authenticate(auth.LoginDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ResolveSession", func() {
		It("should load the principal from a valid token", func() {
			_, token, err := svc.Authenticate(auth.LoginDTO{
				Username: "jdoe", Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			u, err := svc.ResolveSession(token)
			Expect(err).ToNot(HaveOccurred())
			Expect(u.Username).To(Equal("jdoe"))
		})

		It("should reject a token signed with a different secret", func() {
			other := auth.NewSessionManager("a-completely-different-signing-secret", time.Hour)
			token, err := other.Generate("user-1", "jdoe")
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.ResolveSession(token)
			Expect(err).To(Equal(auth.ErrInvalidSession))
		})

		It("should reject an expired token", func() {
			expired := auth.NewSessionManager(testSecret, -time.Minute)
			token, err := expired.Generate("user-1", "jdoe")
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.ResolveSession(token)
			Expect(err).To(Equal(auth.ErrSessionExpired))
		})

		It("should reject garbage", func() {
			_, err := svc.ResolveSession("not-a-token")
			Expect(err).To(Equal(auth.ErrInvalidSession))
		})
	})
})
