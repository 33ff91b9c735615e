package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/internal/store"
	"github.com/foliocms/folio/internal/utils"
	"github.com/foliocms/folio/models"
)

// sessionTokenBytes is the entropy of a session token before hex
// encoding. 32 bytes keeps tokens unguessable by brute force.
const sessionTokenBytes = 32

type sessionService struct {
	sessions store.SessionRepository
	admins   store.AdminRepository
	ttl      time.Duration
	audit    *auditor
	logger   *logger.Logger
}

func newSessionService(sessions store.SessionRepository, admins store.AdminRepository, ttl time.Duration, audit *auditor, log *logger.Logger) *sessionService {
	return &sessionService{
		sessions: sessions,
		admins:   admins,
		ttl:      ttl,
		audit:    audit,
		logger:   log,
	}
}

// Create issues a new session for adminID with a fresh random token.
func (s *sessionService) Create(ctx context.Context, adminID int64, meta models.ClientMeta) (models.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("generating session token: %w", err)
	}

	session := models.Session{
		SessionID: utils.NewUUID(),
		AdminID:   adminID,
		Token:     token,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	created, err := s.sessions.CreateSession(ctx, session)
	if err != nil {
		return models.Session{}, err
	}

	return created, nil
}

// Resolve maps a presented token to its admin account. The session's
// last-seen timestamp is touched best-effort: a touch failure is logged
// and the resolve still succeeds.
func (s *sessionService) Resolve(ctx context.Context, token string) (models.Admin, error) {
	if token == "" {
		return models.Admin{}, ErrUnauthenticated
	}

	session, err := s.sessions.FindSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNoSessionWasFound) {
			return models.Admin{}, ErrUnauthenticated
		}
		return models.Admin{}, err
	}

	admin, err := s.admins.FindAdminByID(ctx, session.AdminID)
	if err != nil {
		if errors.Is(err, store.ErrNoAdminWasFound) {
			// account revoked between session issue and resolve
			return models.Admin{}, ErrUnauthenticated
		}
		return models.Admin{}, err
	}

	if err := s.sessions.TouchSession(ctx, token); err != nil {
		s.logger.Warn().Err(err).
			Int64("admin_id", admin.AdminID).
			Msg("failed to touch session last_seen_at")
	}

	return admin, nil
}

// Refresh atomically replaces the session holding token with a new token
// and a renewed lifetime. The old token is dead the moment this returns.
func (s *sessionService) Refresh(ctx context.Context, token string, meta models.ClientMeta) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrUnauthenticated
	}

	newToken, err := newSessionToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("generating session token: %w", err)
	}

	replacement := models.Session{
		SessionID: utils.NewUUID(),
		Token:     newToken,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	rotated, err := s.sessions.RotateSession(ctx, token, replacement)
	if err != nil {
		if errors.Is(err, store.ErrNoSessionWasFound) {
			return models.Session{}, ErrUnauthenticated
		}
		return models.Session{}, err
	}

	s.audit.record(ctx, rotated.AdminID, models.AuditActionSessionRefresh, meta)

	return rotated, nil
}

// Revoke deletes the session holding token. Revoking an unknown or
// already-revoked token is not an error.
func (s *sessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	return s.sessions.DeleteSessionByToken(ctx, token)
}

// RevokeAll deletes every session belonging to adminID.
func (s *sessionService) RevokeAll(ctx context.Context, adminID int64) error {
	return s.sessions.DeleteSessionsByAdmin(ctx, adminID)
}

// TTL reports the configured session lifetime.
func (s *sessionService) TTL() time.Duration {
	return s.ttl
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
