package entity

import "time"

// Session is a signed-in browser session. The session cookie carries its ID
// inside a signed token; the record itself decides whether the cookie is still honoured.
type Session struct {
	ID        string     // 64-character hex string
	UserID    uint       // Owner
	UserAgent string     // Client's User-Agent header at login
	IPAddress string     // Client's IP address at login
	CreatedAt time.Time  // Login time
	ExpiresAt time.Time  // Hard expiry
	RevokedAt *time.Time // Logout time (nil while active)
}

// IsExpired reports whether the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsRevoked reports whether the session was ended by logout.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid reports whether the session may still authenticate requests.
func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}
