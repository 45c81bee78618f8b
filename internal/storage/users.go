package storage

import (
	"context"
	"database/sql"

	"finance-predictor/internal/apperr"
	"finance-predictor/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

var userColumns = []string{"id", "username", "password_hash", "created_at"}

// CreateUser creates a new user with the given username and password hash.
// A taken username yields apperr.ErrDuplicateUser and leaves the table untouched.
func (db *DB) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	result, err := sqlb.Insert("users").
		Columns("username", "password_hash").
		Values(username, passwordHash).
		RunWith(db.conn).
		ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Wrapf(apperr.ErrDuplicateUser, "username %q", username)
		}
		return nil, errors.Wrap(err, "create user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "create user")
	}

	return db.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.getUser(ctx, sq.Eq{"id": id})
}

// GetUserByUsername retrieves a user by username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.getUser(ctx, sq.Eq{"username": username})
}

func (db *DB) getUser(ctx context.Context, where sq.Eq) (*models.User, error) {
	row := sqlb.Select(userColumns...).
		From("users").
		Where(where).
		RunWith(db.conn).
		QueryRowContext(ctx)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(apperr.ErrNotFound, "get user")
		}
		return nil, errors.Wrap(err, "get user")
	}
	return &u, nil
}

// DeleteUser removes the user, their sessions and all of their saved records
// in one transaction, so a failure leaves every table as it was.
func (db *DB) DeleteUser(ctx context.Context, username string) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := deleteRecordsByUser(ctx, tx, username); err != nil {
			return err
		}

		_, err := sqlb.Delete("sessions").
			Where(sq.Expr("user_id IN (SELECT id FROM users WHERE username = ?)", username)).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return errors.Wrap(err, "delete user sessions")
		}

		res, err := sqlb.Delete("users").
			Where(sq.Eq{"username": username}).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return errors.Wrap(err, "delete user")
		}
		return expectOne(res, "user %q", username)
	})
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount(ctx context.Context) (int, error) {
	var count int
	err := sqlb.Select("COUNT(*)").From("users").RunWith(db.conn).QueryRowContext(ctx).Scan(&count)
	return count, errors.Wrap(err, "count users")
}
