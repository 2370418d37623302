package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/you/accountsvc/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo        domain.UserRepository
	passwordSvc     domain.PasswordService
	tokenSvc        domain.TokenService
	verificationSvc domain.VerificationService
	accessTTL       time.Duration
	logger          *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	verificationSvc domain.VerificationService,
	accessTTL time.Duration,
	logger *slog.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:        userRepo,
		passwordSvc:     passwordSvc,
		tokenSvc:        tokenSvc,
		verificationSvc: verificationSvc,
		accessTTL:       accessTTL,
		logger:          logger,
	}
}

// Signup implements domain.AuthService
func (s *AuthServiceImpl) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, domain.ErrAccountExists
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	// The unique constraint on email is the real guard against concurrent
	// signups; the repository maps the violation to ErrAccountExists.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// A notification failure inside Begin is not surfaced; only ephemeral
	// store failures are. A user row without a deliverable code is left for
	// resend or the cleanup sweep.
	if err := s.verificationSvc.Begin(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to start verification: %w", err)
	}

	s.logger.Info("audit",
		slog.String("event", string(domain.SignupEvent)),
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("email", user.Email),
	)
	return user, nil
}

// VerifyCode implements domain.AuthService. This is the single transition
// from unverified to authenticated: the code is atomically consumed, the
// user row is stamped, and a token pair is minted.
func (s *AuthServiceImpl) VerifyCode(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	if err := s.verificationSvc.Consume(ctx, email, code); err != nil {
		if errors.Is(err, domain.ErrCodeExpired) || errors.Is(err, domain.ErrCodeInvalid) {
			s.logger.Info("audit",
				slog.String("event", string(domain.VerifyFailedEvent)),
				slog.String("email", email),
			)
			return nil, err
		}
		return nil, fmt.Errorf("failed to consume verification code: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	now := time.Now()
	if err := s.userRepo.MarkVerified(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}
	user.VerifiedAt = &now

	result, err := s.mintTokenPair(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("audit",
		slog.String("event", string(domain.VerifiedEvent)),
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("email", user.Email),
	)
	return result, nil
}

// ResendCode implements domain.AuthService
func (s *AuthServiceImpl) ResendCode(ctx context.Context, email, name string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	// The caller may address the user differently than the stored record;
	// the greeting follows the request.
	if name != "" {
		user.Name = name
	}

	return s.verificationSvc.Resend(ctx, user)
}

// Login implements domain.AuthService. Unknown email and wrong password are
// indistinguishable to the caller, to avoid user enumeration. Login never
// consults verification state.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Info("audit",
			slog.String("event", string(domain.LoginFailedEvent)),
			slog.String("email", email),
		)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.logger.Info("audit",
			slog.String("event", string(domain.LoginFailedEvent)),
			slog.String("email", email),
		)
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.mintTokenPair(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("audit",
		slog.String("event", string(domain.LoginEvent)),
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("email", user.Email),
	)
	return result, nil
}

// Refresh implements domain.AuthService. A pure function of the refresh
// token: a new access token is minted from the embedded claims, with no
// rotation and no revocation check.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(claims.UserID, claims.Email, claims.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("audit",
		slog.String("event", string(domain.RefreshEvent)),
		slog.Uint64("user_id", uint64(claims.UserID)),
	)
	return &domain.AuthResult{
		User: &domain.User{
			ID:    claims.UserID,
			Email: claims.Email,
			Name:  claims.Name,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *AuthServiceImpl) mintTokenPair(user *domain.User) (*domain.AuthResult, error) {
	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokenSvc.GenerateRefreshToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}
