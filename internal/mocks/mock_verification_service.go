package mocks

import (
	"context"

	"github.com/you/accountsvc/domain"
)

// MockVerificationService implements domain.VerificationService for testing
type MockVerificationService struct {
	BeginFunc               func(ctx context.Context, user *domain.User) error
	ResendFunc              func(ctx context.Context, user *domain.User) error
	ConsumeFunc             func(ctx context.Context, email, code string) error
	PendingMarkerExistsFunc func(ctx context.Context, email string) (bool, error)
}

// NewMockVerificationService creates a new MockVerificationService with default behaviors
func NewMockVerificationService() *MockVerificationService {
	return &MockVerificationService{}
}

// Begin starts verification for a new account
func (m *MockVerificationService) Begin(ctx context.Context, user *domain.User) error {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// Resend issues a fresh code
func (m *MockVerificationService) Resend(ctx context.Context, user *domain.User) error {
	if m.ResendFunc != nil {
		return m.ResendFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// Consume atomically redeems a code
func (m *MockVerificationService) Consume(ctx context.Context, email, code string) error {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, email, code)
	}
	// Default behavior: no live code
	return domain.ErrCodeExpired
}

// PendingMarkerExists reports marker liveness
func (m *MockVerificationService) PendingMarkerExists(ctx context.Context, email string) (bool, error) {
	if m.PendingMarkerExistsFunc != nil {
		return m.PendingMarkerExistsFunc(ctx, email)
	}
	// Default behavior: expired
	return false, nil
}
