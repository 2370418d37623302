package mocks

import (
	"context"

	"github.com/you/accountsvc/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	SignupFunc     func(ctx context.Context, name, email, password string) (*domain.User, error)
	VerifyCodeFunc func(ctx context.Context, email, code string) (*domain.AuthResult, error)
	ResendCodeFunc func(ctx context.Context, email, name string) error
	LoginFunc      func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	RefreshFunc    func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Signup creates an account
func (m *MockAuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, name, email, password)
	}
	return &domain.User{ID: 1, Name: name, Email: email}, nil
}

// VerifyCode redeems a verification code
func (m *MockAuthService) VerifyCode(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(ctx, email, code)
	}
	return nil, domain.ErrCodeExpired
}

// ResendCode issues a fresh verification code
func (m *MockAuthService) ResendCode(ctx context.Context, email, name string) error {
	if m.ResendCodeFunc != nil {
		return m.ResendCodeFunc(ctx, email, name)
	}
	return nil
}

// Login authenticates with credentials
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, domain.ErrInvalidCredentials
}

// Refresh mints a new access token
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, domain.ErrTokenInvalid
}
