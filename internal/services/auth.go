package services

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hrudu-dev/lucid-bi/internal/apierr"
	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/types"
)

// DefaultDemoUsers is the fixed demo credential table. Passwords are
// plaintext demo values by design; accounts never touch Postgres.
func DefaultDemoUsers() []*types.User {
	return []*types.User{
		{ID: "1", Email: "test@example.com", Password: "password", Name: "Test User", Role: "admin"},
		{ID: "2", Email: "admin@lucidbi.com", Password: "admin123", Name: "Admin User", Role: "admin"},
		{ID: "3", Email: "viewer@lucidbi.com", Password: "viewer123", Name: "Viewer User", Role: "viewer"},
	}
}

type AuthService interface {
	Login(email, password string) (*types.User, string, error)
	Signup(name, email, password string) (*types.User, string, error)
	ForgotPassword(email string) (message string, token string, err error)
	ResetPassword(token, password string) error
}

type authService struct {
	log        *logger.Logger
	tokenStore *TokenStore

	mu         sync.Mutex
	demoUsers  []*types.User
	registered []*types.User
}

// NewAuthService takes its credential table and token store as explicit
// dependencies so tests can substitute both.
func NewAuthService(log *logger.Logger, demoUsers []*types.User, tokenStore *TokenStore) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		log:        serviceLog,
		tokenStore: tokenStore,
		demoUsers:  demoUsers,
	}
}

// sessionToken mints the opaque cookie value: base64 of "<user id>:<unix ms>".
func sessionToken(userID string) string {
	raw := fmt.Sprintf("%s:%d", userID, time.Now().UnixMilli())
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

func (as *authService) Login(email, password string) (*types.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apierr.Validation("email and password required")
	}

	as.mu.Lock()
	defer as.mu.Unlock()
	user := as.findByEmailLocked(email)
	if user == nil || user.Password != password {
		return nil, "", apierr.Auth("invalid email or password")
	}
	return user, sessionToken(user.ID), nil
}

func (as *authService) Signup(name, email, password string) (*types.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", apierr.Validation("name, email and password are required")
	}
	if len(password) < 6 {
		return nil, "", apierr.Validation("password must be at least 6 characters long")
	}

	as.mu.Lock()
	defer as.mu.Unlock()
	if as.findByEmailLocked(email) != nil {
		return nil, "", apierr.Conflict("user with this email already exists")
	}

	user := &types.User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  password,
		Name:      name,
		Role:      "user",
		CreatedAt: time.Now(),
	}
	as.registered = append(as.registered, user)
	return user, sessionToken(user.ID), nil
}

func (as *authService) ForgotPassword(email string) (string, string, error) {
	const neutralMessage = "If an account with this email exists, you will receive a password reset link."
	if email == "" {
		return "", "", apierr.Validation("email is required")
	}

	as.mu.Lock()
	known := as.findByEmailLocked(email) != nil
	as.mu.Unlock()

	// Never reveal whether the email exists.
	if !known {
		return neutralMessage, "", nil
	}

	token := as.tokenStore.Issue(email)
	as.tokenStore.Sweep()
	as.log.Info("Password reset token issued", "email", email)
	return neutralMessage, token.Token, nil
}

func (as *authService) ResetPassword(token, password string) error {
	if token == "" || password == "" {
		return apierr.Validation("token and password are required")
	}
	if len(password) < 6 {
		return apierr.Validation("password must be at least 6 characters long")
	}

	record, found := as.tokenStore.Find(token)
	if !found {
		return apierr.Validation("invalid or expired reset token")
	}
	as.tokenStore.Consume(token)

	// Demo accounts keep their fixed passwords; only signed-up accounts
	// actually change.
	as.mu.Lock()
	defer as.mu.Unlock()
	for _, user := range as.registered {
		if strings.EqualFold(user.Email, record.Email) {
			user.Password = password
			break
		}
	}
	as.log.Info("Password reset completed", "email", record.Email)
	return nil
}

func (as *authService) findByEmailLocked(email string) *types.User {
	for _, user := range as.demoUsers {
		if strings.EqualFold(user.Email, email) {
			return user
		}
	}
	for _, user := range as.registered {
		if strings.EqualFold(user.Email, email) {
			return user
		}
	}
	return nil
}
