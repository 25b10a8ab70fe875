package auth

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dsaplatform/backend/internal/apperr"
	"github.com/dsaplatform/backend/internal/gamification"
	"go.uber.org/zap"
)

// demoPassword is the fixed credential every seeded demo account accepts.
const demoPassword = "password"

var noOpLogger = zap.NewNop()

// ServiceConfig describes the dependencies of the auth service.
type ServiceConfig struct {
	Clock  func() time.Time
	Logger *zap.Logger
}

// Service authenticates against the seeded demo accounts and registers new
// throwaway accounts. Registered users live only for the process lifetime.
type Service struct {
	mu     sync.Mutex
	users  []User
	clock  func() time.Time
	logger *zap.Logger
}

// NewService constructs the service with the seeded demo users.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		users:  seedUsers(),
		clock:  clock,
		logger: logger,
	}
}

// Login validates the credentials against the seeded accounts and mints an
// opaque session token on success.
func (s *Service) Login(email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" {
		return Session{}, apperr.NewAuth("Email is required")
	}
	if strings.TrimSpace(password) == "" {
		return Session{}, apperr.NewAuth("Password is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := normalizeEmail(email)
	for _, user := range s.users {
		if user.Email != normalized {
			continue
		}
		if password != demoPassword {
			break
		}
		token := fmt.Sprintf("mock_token_%s_%d", user.ID, s.clock().UnixMilli())
		s.logger.Debug("login succeeded", zap.String("user_id", user.ID))
		return Session{User: user, Token: token}, nil
	}

	return Session{}, apperr.NewAuth("Invalid email or password")
}

// Register creates a fresh account. Demo semantics: it always succeeds, with
// no duplicate-email check.
func (s *Service) Register(username, email, password string) (Session, error) {
	_ = password

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	user := User{
		ID:        fmt.Sprintf("user_%d", now.UnixMilli()),
		Username:  username,
		Email:     email,
		Points:    0,
		Streak:    0,
		Level:     1,
		Badges:    []gamification.Badge{},
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
	s.users = append(s.users, user)

	return Session{User: user, Token: "mock_token_" + user.ID}, nil
}

// FindByID returns the user with the given id.
func (s *Service) FindByID(userID string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return User{}, apperr.NewNotFound("User")
}

// ProfileUpdate describes a partial profile edit. Nil fields are untouched.
type ProfileUpdate struct {
	Username *string
	Avatar   *string
}

// UpdateProfile merges the update over the stored user and returns the
// result.
func (s *Service) UpdateProfile(userID string, update ProfileUpdate) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != userID {
			continue
		}
		if update.Username != nil {
			s.users[i].Username = *update.Username
		}
		if update.Avatar != nil {
			s.users[i].Avatar = *update.Avatar
		}
		return s.users[i], nil
	}
	return User{}, apperr.NewNotFound("User")
}
