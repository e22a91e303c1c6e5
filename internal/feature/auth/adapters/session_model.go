package adapters

import (
	"time"

	"papertrade/internal/feature/auth/domain/entity"
)

// SessionModel is one browser login, stored in the sessions table when Redis
// is not configured. The session cookie's JWT names the row by ID; there are
// no refresh tokens, so a session ends by expiry, logout or the next login.
// Expired rows are removed by the hourly purge.
type SessionModel struct {
	ID        string     `gorm:"primaryKey;size:64"` // 64 hex chars, the JWT "sid" claim
	UserID    uint       `gorm:"index;not null"`
	UserAgent string     `gorm:"size:512"`
	IPAddress string     `gorm:"size:45"`
	CreatedAt time.Time  `gorm:"not null"`
	ExpiresAt time.Time  `gorm:"index;not null"` // indexed for the purge
	RevokedAt *time.Time `gorm:"index"`          // set by logout
}

func (SessionModel) TableName() string {
	return "sessions"
}

func (m *SessionModel) toEntity() *entity.Session {
	return &entity.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		UserAgent: m.UserAgent,
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		RevokedAt: m.RevokedAt,
	}
}

// newSessionModel copies a login session into a row. A fresh login is never revoked.
func newSessionModel(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:        s.ID,
		UserID:    s.UserID,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
