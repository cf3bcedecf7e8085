package domain

import "time"

// Session binds an opaque token to a user and an expiry instant. Sessions
// are owned by an external store; this service only ever reads them.
type Session struct {
	SessionKey string
	UserID     int64
	ExpireAt   time.Time
}

// Valid reports whether the session is still live at the given instant.
func (s Session) Valid(now time.Time) bool {
	return s.ExpireAt.After(now)
}
