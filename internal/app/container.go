package app

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/config"
	"github.com/you/accountsvc/internal/infrastructure/auth"
	"github.com/you/accountsvc/internal/infrastructure/database"
	"github.com/you/accountsvc/internal/infrastructure/notifications"
	"github.com/you/accountsvc/internal/infrastructure/repositories"
	"github.com/you/accountsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	DB          *gorm.DB
	RedisClient *redis.Client

	UserRepo domain.UserRepository

	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	VerificationSvc domain.VerificationService
	AuthSvc         domain.AuthService
	CleanupSvc      *services.CleanupService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{Config: cfg, Logger: logger}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	container.initRedis()
	container.initRepositories()
	container.initServices()

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)

	switch c.Config.NotifierProvider {
	case "twilio":
		c.NotificationSvc = notifications.NewTwilioService(
			c.Config.TwilioSID,
			c.Config.TwilioToken,
			c.Config.TwilioFrom,
			c.Logger,
		)
	default:
		c.NotificationSvc = notifications.NewSMTPService(
			c.Config.SMTPHost,
			c.Config.SMTPPort,
			c.Config.SMTPUsername,
			c.Config.SMTPPassword,
			c.Config.SMTPFrom,
			c.Logger,
		)
	}

	verificationCfg := services.VerificationConfig{
		CodeLength:   c.Config.CodeLength,
		CodeTTL:      c.Config.CodeTTL,
		PendingTTL:   c.Config.PendingTTL,
		ResendWindow: c.Config.ResendWindow,
	}
	c.VerificationSvc = services.NewVerificationService(c.NotificationSvc, c.RedisClient, verificationCfg, c.Logger)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.VerificationSvc,
		c.Config.AccessTTL,
		c.Logger,
	)

	c.CleanupSvc = services.NewCleanupService(
		c.UserRepo,
		c.VerificationSvc,
		c.Config.CleanupInterval,
		c.Config.PendingTTL,
		c.Logger,
	)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
