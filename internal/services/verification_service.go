package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/accountsvc/domain"
)

// Key schema in the ephemeral store. The code and the pending-account marker
// run on independent expiry clocks.
const (
	otpKeyPrefix     = "otp:"
	pendingKeyPrefix = "pending_account:"
	resendKeyPrefix  = "otp:res:"
)

// consumeScript makes read-compare-delete a single atomic step so a code can
// be redeemed at most once. Returns 1 on success (both keys removed), 0 when
// no code is live and -1 on mismatch; a mismatch leaves the code in place.
var consumeScript = redis.NewScript(`
local code = redis.call('GET', KEYS[1])
if not code then
  return 0
end
if code ~= ARGV[1] then
  return -1
end
redis.call('DEL', KEYS[1], KEYS[2])
return 1
`)

// VerificationServiceImpl implements domain.VerificationService using Redis
type VerificationServiceImpl struct {
	notificationSvc domain.NotificationService
	redisClient     *redis.Client
	config          VerificationConfig
	logger          *slog.Logger
}

type VerificationConfig struct {
	CodeLength   int
	CodeTTL      time.Duration
	PendingTTL   time.Duration
	ResendWindow time.Duration
}

// NewVerificationService creates a new Redis-based verification service
func NewVerificationService(notificationSvc domain.NotificationService, redisClient *redis.Client, config VerificationConfig, logger *slog.Logger) domain.VerificationService {
	return &VerificationServiceImpl{
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		config:          config,
		logger:          logger,
	}
}

// Begin implements domain.VerificationService
func (s *VerificationServiceImpl) Begin(ctx context.Context, user *domain.User) error {
	code, err := s.generateSecureCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	if err := s.redisClient.Set(ctx, otpKeyPrefix+user.Email, code, s.config.CodeTTL).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := s.redisClient.Set(ctx, pendingKeyPrefix+user.Email, user.ID, s.config.PendingTTL).Err(); err != nil {
		return fmt.Errorf("failed to store pending-account marker: %w", err)
	}

	if err := s.redisClient.Set(ctx, resendKeyPrefix+user.Email, 1, s.config.ResendWindow).Err(); err != nil {
		return fmt.Errorf("failed to set resend throttle: %w", err)
	}

	s.dispatch(user, code, domain.CodeSentEvent)
	return nil
}

// Resend implements domain.VerificationService. The code is overwritten and
// its TTL reset; the pending-account marker keeps its original clock.
func (s *VerificationServiceImpl) Resend(ctx context.Context, user *domain.User) error {
	ttl, err := s.redisClient.TTL(ctx, resendKeyPrefix+user.Email).Result()
	if err != nil {
		return fmt.Errorf("failed to check resend throttle: %w", err)
	}
	if ttl > 0 {
		return domain.ErrResendThrottled
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	if err := s.redisClient.Set(ctx, otpKeyPrefix+user.Email, code, s.config.CodeTTL).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := s.redisClient.Set(ctx, resendKeyPrefix+user.Email, 1, s.config.ResendWindow).Err(); err != nil {
		return fmt.Errorf("failed to set resend throttle: %w", err)
	}

	s.dispatch(user, code, domain.CodeResentEvent)
	return nil
}

// Consume implements domain.VerificationService
func (s *VerificationServiceImpl) Consume(ctx context.Context, email, code string) error {
	keys := []string{otpKeyPrefix + email, pendingKeyPrefix + email}
	result, err := consumeScript.Run(ctx, s.redisClient, keys, code).Int()
	if err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
	}

	switch result {
	case 1:
		return nil
	case -1:
		return domain.ErrCodeInvalid
	default:
		return domain.ErrCodeExpired
	}
}

// PendingMarkerExists implements domain.VerificationService
func (s *VerificationServiceImpl) PendingMarkerExists(ctx context.Context, email string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, pendingKeyPrefix+email).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check pending-account marker: %w", err)
	}
	return n > 0, nil
}

// dispatch delivers the code notification without blocking the caller.
// Delivery failures are logged, never propagated; the user can request a
// resend if the message is lost.
func (s *VerificationServiceImpl) dispatch(user *domain.User, code string, event domain.AuditEventType) {
	subject := "Your verification code"
	text := fmt.Sprintf("Hi %s, your verification code is: %s. Valid for %d minutes.",
		user.Name, code, int(s.config.CodeTTL.Minutes()))
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is: <strong>%s</strong>.</p><p>Valid for %d minutes.</p>",
		user.Name, code, int(s.config.CodeTTL.Minutes()))

	go func() {
		if err := s.notificationSvc.Send(user.Email, subject, text, html, domain.PriorityHigh); err != nil {
			s.logger.Warn("verification code delivery failed",
				slog.String("event", string(event)),
				slog.String("email", user.Email),
				slog.String("error", err.Error()),
			)
			return
		}
		s.logger.Info("verification code dispatched",
			slog.String("event", string(event)),
			slog.String("email", user.Email),
		)
	}()
}

// generateSecureCode generates a cryptographically secure numeric code
func (s *VerificationServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.CodeLength)

	for i := 0; i < s.config.CodeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
