package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/markdown-blog/internal/config"
	"github.com/markdown-blog/internal/models"
	"github.com/markdown-blog/internal/repository"
	"github.com/markdown-blog/internal/validation"
	"github.com/rs/zerolog"
)

// authService is the concrete implementation of AuthService
type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cfg      *config.SessionConfig
	log      zerolog.Logger

	// session sweeper state
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	running bool
}

// newAuthService creates a new AuthService
func newAuthService(users repository.UserRepository, sessions repository.SessionRepository, cfg *config.SessionConfig, log zerolog.Logger) *authService {
	return &authService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log.With().Str("service", "auth").Logger(),
	}
}

// Signup creates a user from the given credentials and establishes a
// session for it. Returns models.ErrDuplicateEmail when the normalized
// email is already registered.
func (s *authService) Signup(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if errs := validation.ValidateSignup(email, password); len(errs) > 0 {
		return nil, "", errs
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("User signed up")
	return user, token, nil
}

// Login verifies the credentials and establishes a session. Unknown email
// and wrong password both return models.ErrInvalidCredentials; callers
// must not be able to tell which check failed.
func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if errs := validation.ValidateLogin(email, password); len(errs) > 0 {
		return nil, "", models.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", models.ErrInvalidCredentials
	}
	if !verifyPassword(user.PasswordHash, password) {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("User logged in")
	return user, token, nil
}

// Logout destroys the session unconditionally; idempotent
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := uuid.Parse(token); err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// CurrentUser resolves the session token to a user record. An absent,
// malformed, or expired token, or a session whose user no longer exists,
// all yield (nil, nil): "no user" is an outcome here, not an error.
func (s *authService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	// Reject tampered cookie values before they reach the store as a query.
	if _, err := uuid.Parse(token); err != nil {
		return nil, nil
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	return s.users.GetByID(ctx, session.UserID)
}

func (s *authService) createSession(ctx context.Context, userID string) (string, error) {
	now := time.Now().UTC()
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.cfg.TTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return session.Token, nil
}

// StartSessionSweeper periodically deletes sessions past their absolute
// expiry. Expired sessions are already invisible to lookups; the sweeper
// only keeps the table from growing without bound.
func (s *authService) StartSessionSweeper(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.log.Info().Dur("interval", s.cfg.SweepInterval).Msg("Session sweeper started")

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Session sweeper stopping")
			return
		case <-ticker.C:
			reaped, err := s.sessions.DeleteExpired(s.ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("Failed to sweep expired sessions")
				continue
			}
			if reaped > 0 {
				s.log.Info().Int64("reaped", reaped).Msg("Expired sessions removed")
			}
		}
	}
}

// StopSessionSweeper stops the background sweeper
func (s *authService) StopSessionSweeper() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cancel()
	s.running = false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
