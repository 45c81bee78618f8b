package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"finance-predictor/internal/apperr"
	"finance-predictor/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

const timestampLayout = "2006-01-02 15:04:05"

var feedbackColumns = []string{"id", "name", "email", "message", "timestamp", "status", "admin_reply"}

// SubmitFeedback stores a visitor message stamped with at. Blank name and email
// are stored as NULL; a blank message is rejected with apperr.ErrMissingMessage.
func (db *DB) SubmitFeedback(ctx context.Context, name, email, message string, at time.Time) (*models.Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.ErrMissingMessage
	}

	fb := models.Feedback{
		Name:      optional(name),
		Email:     optional(email),
		Message:   message,
		Timestamp: at.Format(timestampLayout),
		Status:    models.FeedbackPending,
	}

	res, err := sqlb.Insert("feedbacks").
		Columns("name", "email", "message", "timestamp", "status").
		Values(fb.Name, fb.Email, fb.Message, fb.Timestamp, fb.Status).
		RunWith(db.conn).
		ExecContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "submit feedback")
	}

	if fb.ID, err = res.LastInsertId(); err != nil {
		return nil, errors.Wrap(err, "submit feedback")
	}
	return &fb, nil
}

// ListFeedback returns feedback newest first. limit <= 0 returns everything.
func (db *DB) ListFeedback(ctx context.Context, limit int) ([]models.Feedback, error) {
	query := sqlb.Select(feedbackColumns...).
		From("feedbacks").
		OrderBy("timestamp DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	rows, err := query.RunWith(db.conn).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list feedback")
	}
	defer rows.Close()

	list := make([]models.Feedback, 0)
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, errors.Wrap(err, "list feedback")
		}
		list = append(list, *fb)
	}
	return list, errors.Wrap(rows.Err(), "list feedback")
}

// GetFeedback retrieves one feedback entry.
func (db *DB) GetFeedback(ctx context.Context, id int64) (*models.Feedback, error) {
	row := sqlb.Select(feedbackColumns...).
		From("feedbacks").
		Where(sq.Eq{"id": id}).
		RunWith(db.conn).
		QueryRowContext(ctx)

	fb, err := scanFeedback(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(apperr.ErrNotFound, "feedback %d", id)
		}
		return nil, errors.Wrap(err, "get feedback")
	}
	return fb, nil
}

// ReplyFeedback sets the admin reply and marks the entry as replied. It may be
// called repeatedly; the latest reply wins.
func (db *DB) ReplyFeedback(ctx context.Context, id int64, reply string) error {
	res, err := sqlb.Update("feedbacks").
		Set("admin_reply", reply).
		Set("status", models.FeedbackReplied).
		Where(sq.Eq{"id": id}).
		RunWith(db.conn).
		ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "reply feedback")
	}
	return expectOne(res, "feedback %d", id)
}

// DeleteFeedback removes one feedback entry.
func (db *DB) DeleteFeedback(ctx context.Context, id int64) error {
	res, err := sqlb.Delete("feedbacks").Where(sq.Eq{"id": id}).RunWith(db.conn).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "delete feedback")
	}
	return expectOne(res, "feedback %d", id)
}

func scanFeedback(row sq.RowScanner) (*models.Feedback, error) {
	var (
		fb                 models.Feedback
		name, email, reply sql.NullString
	)
	if err := row.Scan(&fb.ID, &name, &email, &fb.Message, &fb.Timestamp, &fb.Status, &reply); err != nil {
		return nil, err
	}
	fb.Name = fromNull(name)
	fb.Email = fromNull(email)
	fb.AdminReply = fromNull(reply)
	return &fb, nil
}

func expectOne(res sql.Result, format string, args ...any) error {
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(apperr.ErrNotFound, format, args...)
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
