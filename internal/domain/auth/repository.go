package auth

import (
	"context"
	"time"
)

type RefreshToken struct {
	ID         string
	EmployeeID string
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	UserAgent  *string
	IPAddress  *string
	CreatedAt  time.Time
}

// RefreshTokenRepository stores refresh tokens by hash only.
type RefreshTokenRepository interface {
	Create(ctx context.Context, employeeID string, token string, expiresAt time.Time, session SessionTrackingRequest) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForEmployee(ctx context.Context, employeeID string) error
}
