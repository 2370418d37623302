package mocks

import (
	"context"
	"time"

	"github.com/you/accountsvc/domain"
)

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	CreateFunc                      func(ctx context.Context, user *domain.User) error
	FindByEmailFunc                 func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc                    func(ctx context.Context, id uint) (*domain.User, error)
	MarkVerifiedFunc                func(ctx context.Context, userID uint, at time.Time) error
	ListUnverifiedCreatedBeforeFunc func(ctx context.Context, cutoff time.Time) ([]*domain.User, error)
	DeleteFunc                      func(ctx context.Context, userID uint) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// MarkVerified stamps the verification time on a user
func (m *MockUserRepository) MarkVerified(ctx context.Context, userID uint, at time.Time) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(ctx, userID, at)
	}
	// Default behavior: success
	return nil
}

// ListUnverifiedCreatedBefore lists unverified users older than cutoff
func (m *MockUserRepository) ListUnverifiedCreatedBefore(ctx context.Context, cutoff time.Time) ([]*domain.User, error) {
	if m.ListUnverifiedCreatedBeforeFunc != nil {
		return m.ListUnverifiedCreatedBeforeFunc(ctx, cutoff)
	}
	// Default behavior: nothing to clean up
	return nil, nil
}

// Delete removes a user
func (m *MockUserRepository) Delete(ctx context.Context, userID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID)
	}
	// Default behavior: success
	return nil
}
