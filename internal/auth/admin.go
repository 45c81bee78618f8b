package auth

import (
	"crypto/subtle"
	"time"

	"finance-predictor/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	adminSubject = "admin"
	// AdminSessionDuration bounds how long an admin cookie stays valid.
	AdminSessionDuration = 12 * time.Hour
)

// AdminGate checks the static admin credentials from configuration and issues
// signed admin session tokens. The credentials are compared as plain text; they
// are not hashed.
type AdminGate struct {
	username string
	password string
	secret   []byte
	now      func() time.Time
}

// NewAdminGate builds a gate. An empty password disables admin login.
func NewAdminGate(username, password, secret string) *AdminGate {
	return &AdminGate{
		username: username,
		password: password,
		secret:   []byte(secret),
		now:      time.Now,
	}
}

type adminClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// Login validates the credentials and returns a signed admin token.
func (g *AdminGate) Login(username, password string) (string, error) {
	if g.password == "" || !equal(username, g.username) || !equal(password, g.password) {
		return "", apperr.ErrInvalidCredentials
	}

	now := g.now()
	claims := &adminClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AdminSessionDuration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign admin token")
	}
	return token, nil
}

// Verify returns apperr.ErrUnauthorized unless token is a valid admin token.
func (g *AdminGate) Verify(token string) error {
	if token == "" {
		return apperr.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(token, &adminClaims{}, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
		jwt.WithSubject(adminSubject),
	)
	if err != nil {
		return errors.Wrap(apperr.ErrUnauthorized, err.Error())
	}

	claims, ok := parsed.Claims.(*adminClaims)
	if !ok || !parsed.Valid || !claims.Admin {
		return apperr.ErrUnauthorized
	}
	return nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
