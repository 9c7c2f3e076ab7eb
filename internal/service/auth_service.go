package service

import (
	"context"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 1_000_000
	pbkdf2KeyLen     = 64
	tokenBytes       = 128
)

// SessionStore holds the single admin session record. Implemented by
// redisclient.Client so every instance agrees on the current token.
type SessionStore interface {
	SetAdminSession(ctx context.Context, token string, ttl time.Duration) error
	GetAdminSession(ctx context.Context) (string, error)
}

var _ SessionStore = (*redisclient.Client)(nil)

// AuthService is the admin authorizer: one shared-secret + TOTP login issuing
// a single bearer token, held as an explicit session record rather than
// module-level state. Each login replaces the previous one.
type AuthService struct {
	passwordHash []byte
	passwordSalt []byte
	totpSecret   string
	sessionTTL   time.Duration
	sessions     SessionStore
	publisher    *broker.EventPublisher
	logger       *zap.Logger
}

// NewAuthService creates an auth service from base64-encoded credentials
func NewAuthService(passwordHashB64, passwordSaltB64, totpSecret string, sessionTTL time.Duration,
	sessions SessionStore, publisher *broker.EventPublisher) (*AuthService, error) {

	hash, err := base64.StdEncoding.DecodeString(passwordHashB64)
	if err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}
	salt, err := base64.StdEncoding.DecodeString(passwordSaltB64)
	if err != nil {
		return nil, fmt.Errorf("invalid admin password salt: %w", err)
	}

	return &AuthService{
		passwordHash: hash,
		passwordSalt: salt,
		totpSecret:   totpSecret,
		sessionTTL:   sessionTTL,
		sessions:     sessions,
		publisher:    publisher,
		logger:       util.GetLogger(),
	}, nil
}

// Login checks the password and one-time code and issues a fresh bearer
// token, silently superseding any previous session.
func (s *AuthService) Login(ctx context.Context, password, totpCode string) (string, error) {
	if !totp.Validate(totpCode, s.totpSecret) {
		util.AdminLoginsTotal.WithLabelValues("bad_totp").Inc()
		return "", ErrBadCredentials
	}

	derived := pbkdf2.Key([]byte(password), s.passwordSalt, pbkdf2Iterations, pbkdf2KeyLen, sha512.New)
	if subtle.ConstantTimeCompare(derived, s.passwordHash) != 1 {
		util.AdminLoginsTotal.WithLabelValues("bad_password").Inc()
		return "", ErrBadCredentials
	}

	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.StdEncoding.EncodeToString(raw)

	if err := s.sessions.SetAdminSession(ctx, token, s.sessionTTL); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	util.AdminLoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Admin login succeeded")

	if s.publisher != nil {
		event := &models.AdminLoginEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeAdminLogin,
				Timestamp: time.Now(),
			},
		}
		if err := s.publisher.PublishAdminLogin(ctx, event); err != nil {
			s.logger.Error("Failed to publish AdminLogin event", zap.Error(err))
		}
	}

	return token, nil
}

// Authorize checks a bearer token against the current session record. With no
// session on record every token is rejected: the gate is closed until the
// first successful login.
func (s *AuthService) Authorize(ctx context.Context, token string) error {
	current, err := s.sessions.GetAdminSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if current == "" || token == "" {
		return ErrBadToken
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(current)) != 1 {
		return ErrBadToken
	}
	return nil
}
