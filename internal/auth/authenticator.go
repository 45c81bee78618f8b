package auth

import (
	"context"
	"strings"

	"finance-predictor/internal/apperr"
	"finance-predictor/internal/models"

	"github.com/pkg/errors"
)

// UserStore is the credential store the Authenticator works against.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticator registers users and checks their credentials.
type Authenticator struct {
	users UserStore
}

func NewAuthenticator(users UserStore) *Authenticator {
	return &Authenticator{users: users}
}

// Register creates an account. The password is stored only as a bcrypt hash.
func (a *Authenticator) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.InvalidInput("username and password are required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	return a.users.CreateUser(ctx, username, hash)
}

// Authenticate returns the user when password matches, and
// apperr.ErrInvalidCredentials for an unknown user or a wrong password alike.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	user, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}
