// Package services provides application-level orchestration services
package services

import (
	"fmt"
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/user"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/email"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/performance"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/security"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles account registration, login and JWT operations
type AuthService struct {
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
	accountRepo  user.AccountRepository
	emailService email.Service
	jwtSecret    string
}

// NewAuthService creates a new authentication service. emailService may be
// nil when no mail provider is configured.
func NewAuthService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, accountRepo user.AccountRepository, emailService email.Service, jwtSecret string) *AuthService {
	return &AuthService{
		logger:       logger,
		perfTracker:  perfTracker,
		accountRepo:  accountRepo,
		emailService: emailService,
		jwtSecret:    jwtSecret,
	}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Token   string        `json:"token"`
	Profile *user.Profile `json:"profile,omitempty"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
}

// Register creates a new account and returns a signed session token.
func (a *AuthService) Register(email, password, displayName string) (*AuthResult, error) {
	existing, err := a.accountRepo.FindByEmail(email)
	if err != nil {
		a.logger.Auth().Error("Database error checking for existing account", "error", err, "email", email)
		return nil, fmt.Errorf("database error checking existing email")
	}
	if existing != nil {
		return &AuthResult{Success: false, Error: "Email already registered"}, nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		a.logger.Auth().Error("Password hashing failed", "error", err)
		return nil, fmt.Errorf("password hashing failed")
	}

	now := time.Now().UTC()
	account := &user.Account{
		ID:           security.GenerateULID(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  displayName,
		Created:      now,
		Changed:      &now,
	}

	if err := a.accountRepo.Store(account); err != nil {
		a.logger.Auth().Error("Failed to store new account", "error", err, "accountId", account.ID)
		return nil, fmt.Errorf("failed to create account")
	}

	token, err := security.GenerateAccountToken(account, a.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("token generation failed")
	}

	if a.emailService != nil {
		if err := a.emailService.SendWelcomeEmail(account.Email, account.DisplayName); err != nil {
			// Registration already succeeded; a failed welcome mail is not fatal.
			a.logger.Auth().Warn("Failed to send welcome email", "error", err, "accountId", account.ID)
		}
	}

	a.logger.LogAuthOperation("register", account.ID, true, nil)
	return &AuthResult{
		Success: true,
		Token:   token,
		Profile: &user.Profile{AccountID: account.ID, Email: account.Email, DisplayName: account.DisplayName},
	}, nil
}

// Login validates credentials and returns a signed session token.
func (a *AuthService) Login(email, password string) (*AuthResult, error) {
	account, err := a.accountRepo.ValidateCredentials(email, password)
	if err != nil {
		a.logger.Auth().Error("Database error during login", "error", err, "email", email)
		return nil, fmt.Errorf("database error during login")
	}
	if account == nil {
		a.logger.LogAuthOperation("login", email, false, nil)
		return &AuthResult{Success: false, Error: "Invalid credentials"}, nil
	}

	token, err := security.GenerateAccountToken(account, a.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("token generation failed")
	}

	a.logger.LogAuthOperation("login", account.ID, true, nil)
	return &AuthResult{
		Success: true,
		Token:   token,
		Profile: &user.Profile{AccountID: account.ID, Email: account.Email, DisplayName: account.DisplayName},
	}, nil
}

// DecodeToken validates a session token and extracts the profile.
func (a *AuthService) DecodeToken(tokenString string) *user.Profile {
	if tokenString == "" {
		return nil
	}

	claims, err := security.ValidateJWT(tokenString, a.jwtSecret)
	if err != nil {
		return nil
	}
	return security.GetProfileFromClaims(claims)
}

// GetAccount loads an account by id.
func (a *AuthService) GetAccount(accountID string) (*user.Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account ID cannot be empty")
	}
	return a.accountRepo.FindByID(accountID)
}
