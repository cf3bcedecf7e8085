package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/forkful/api/internal/repository"
)

// ErrUnauthenticated covers every failed token check: missing, unknown and
// expired tokens all map to it so callers cannot tell the cases apart.
var ErrUnauthenticated = errors.New("session: unauthenticated")

// Service validates presented session tokens against the session store.
type Service struct {
	sessions repository.SessionRepository
	logger   *slog.Logger
}

// New constructs a Service.
func New(sessions repository.SessionRepository, logger *slog.Logger) Service {
	return Service{sessions: sessions, logger: logger}
}

// Validate resolves a token to a user id. The caller captures now once per
// request and threads it through, so a token cannot be live at lookup time
// yet stale for the rest of the same request.
func (s Service) Validate(ctx context.Context, token string, now time.Time) (int64, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return 0, ErrUnauthenticated
	}
	sess, err := s.sessions.GetLiveSession(ctx, trimmed, now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("session rejected", "reason", "unknown or expired token")
			return 0, ErrUnauthenticated
		}
		return 0, err
	}
	if !sess.Valid(now) {
		return 0, ErrUnauthenticated
	}
	return sess.UserID, nil
}
