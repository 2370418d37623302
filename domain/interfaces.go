package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	MarkVerified(ctx context.Context, userID uint, at time.Time) error
	ListUnverifiedCreatedBefore(ctx context.Context, cutoff time.Time) ([]*User, error)
	Delete(ctx context.Context, userID uint) error
}

// AuthService defines authentication business logic
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*User, error)
	VerifyCode(ctx context.Context, email, code string) (*AuthResult, error)
	ResendCode(ctx context.Context, email, name string) error
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
}

// VerificationService manages the one-time-code lifecycle in the ephemeral store
type VerificationService interface {
	// Begin stores a fresh code and a pending-account marker for a newly
	// created user and dispatches the code notification.
	Begin(ctx context.Context, user *User) error
	// Resend overwrites any live code with a fresh one and resets its TTL.
	// The pending-account marker keeps its original clock.
	Resend(ctx context.Context, user *User) error
	// Consume atomically compares and removes the code for email. Returns
	// ErrCodeExpired when no code is live and ErrCodeInvalid on mismatch;
	// mismatch leaves the stored code untouched.
	Consume(ctx context.Context, email, code string) error
	// PendingMarkerExists reports whether the deletion marker is still live.
	PendingMarkerExists(ctx context.Context, email string) (bool, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(userID uint, email, name string) (string, error)
	GenerateRefreshToken(userID uint, email, name string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// NotificationPriority ranks outbound messages for the delivery provider
type NotificationPriority int

const (
	PriorityLow NotificationPriority = iota
	PriorityNormal
	PriorityHigh
)

// NotificationService delivers messages to users out-of-band. Delivery is
// best-effort; callers must not treat a send failure as fatal.
type NotificationService interface {
	Send(recipient, subject, textBody, htmlBody string, priority NotificationPriority) error
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
