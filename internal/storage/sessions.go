package storage

import (
	"context"
	"database/sql"
	"time"

	"finance-predictor/internal/apperr"
	"finance-predictor/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

// CreateSession creates a new session for a user.
func (db *DB) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := sqlb.Insert("sessions").
		Columns("token", "user_id", "expires_at", "last_activity").
		Values(token, userID, expiresAt.UTC(), time.Now().UTC()).
		RunWith(db.conn).
		ExecContext(ctx)
	return errors.Wrap(err, "create session")
}

// SessionInfo holds session validation data.
type SessionInfo struct {
	User         *models.User
	LastActivity time.Time
	ExpiresAt    time.Time
}

// ValidateSession checks if a session token is valid and returns the associated user.
func (db *DB) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	info, err := db.ValidateSessionWithInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	return info.User, nil
}

// ValidateSessionWithInfo checks if a session token is valid and returns session details.
func (db *DB) ValidateSessionWithInfo(ctx context.Context, token string) (*SessionInfo, error) {
	row := sqlb.Select("u.id", "u.username", "u.password_hash", "u.created_at", "s.last_activity", "s.expires_at").
		From("sessions s").
		Join("users u ON s.user_id = u.id").
		Where(sq.Eq{"s.token": token}).
		Where(sq.Gt{"s.expires_at": time.Now().UTC()}).
		RunWith(db.conn).
		QueryRowContext(ctx)

	var u models.User
	var lastActivity, expiresAt time.Time
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &lastActivity, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(apperr.ErrUnauthorized, "validate session")
		}
		return nil, errors.Wrap(err, "validate session")
	}
	return &SessionInfo{
		User:         &u,
		LastActivity: lastActivity,
		ExpiresAt:    expiresAt,
	}, nil
}

// RenewSession updates the last_activity and expires_at for a session.
func (db *DB) RenewSession(ctx context.Context, token string, newExpiresAt time.Time) error {
	_, err := sqlb.Update("sessions").
		Set("last_activity", time.Now().UTC()).
		Set("expires_at", newExpiresAt.UTC()).
		Where(sq.Eq{"token": token}).
		RunWith(db.conn).
		ExecContext(ctx)
	return errors.Wrap(err, "renew session")
}

// DeleteSession removes a session by token.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := sqlb.Delete("sessions").Where(sq.Eq{"token": token}).RunWith(db.conn).ExecContext(ctx)
	return errors.Wrap(err, "delete session")
}

// CleanExpiredSessions removes all expired sessions.
func (db *DB) CleanExpiredSessions(ctx context.Context) (int64, error) {
	res, err := sqlb.Delete("sessions").
		Where(sq.LtOrEq{"expires_at": time.Now().UTC()}).
		RunWith(db.conn).
		ExecContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "clean expired sessions")
	}
	return rowsAffected(res)
}
