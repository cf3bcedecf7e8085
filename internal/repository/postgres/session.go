package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/forkful/api/internal/domain"
	"github.com/forkful/api/internal/repository"
)

const liveSessionSelect = `SELECT session_key, user_id, expire_at
	FROM sessions
	WHERE session_key = $1 AND expire_at > $2`

// GetLiveSession fetches a session by token, enforcing expiry in the query.
// Unknown and expired tokens are indistinguishable: both are ErrNotFound.
func (r *Repository) GetLiveSession(ctx context.Context, sessionKey string, now time.Time) (*domain.Session, error) {
	key := strings.TrimSpace(sessionKey)
	if key == "" {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, liveSessionSelect, key, now.UTC())
	var s domain.Session
	if err := row.Scan(&s.SessionKey, &s.UserID, &s.ExpireAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
