package storage

import (
	"context"
	"database/sql"
	"time"

	"finance-predictor/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jinzhu/now"
	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

var recordColumns = []string{
	"id", "username", "income", "age", "dependents", "occupation", "city_tier",
	"total_expenses", "balance", "predicted_expense", "predicted_financial_score",
	"date", "month",
}

// InsertRecord stores a computed snapshot and sets rec.ID.
func (db *DB) InsertRecord(ctx context.Context, rec *models.ExpenseRecord) error {
	res, err := sqlb.Insert("saved_expenses").
		Columns(recordColumns[1:]...).
		Values(rec.Username, rec.Income, rec.Age, rec.Dependents, rec.Occupation, rec.CityTier,
			rec.TotalExpenses, rec.Balance, rec.PredictedExpense, rec.PredictedFinancialScore,
			rec.Date, rec.Month).
		RunWith(db.conn).
		ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "insert record")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "insert record")
	}
	rec.ID = id
	return nil
}

// ListRecordsByUser returns the user's saved records, newest date first.
func (db *DB) ListRecordsByUser(ctx context.Context, username string) ([]models.ExpenseRecord, error) {
	rows, err := sqlb.Select(recordColumns...).
		From("saved_expenses").
		Where(sq.Eq{"username": username}).
		OrderBy("date DESC", "id DESC").
		RunWith(db.conn).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list records")
	}
	defer rows.Close()

	records := make([]models.ExpenseRecord, 0)
	for rows.Next() {
		var r models.ExpenseRecord
		if err := rows.Scan(&r.ID, &r.Username, &r.Income, &r.Age, &r.Dependents, &r.Occupation,
			&r.CityTier, &r.TotalExpenses, &r.Balance, &r.PredictedExpense,
			&r.PredictedFinancialScore, &r.Date, &r.Month); err != nil {
			return nil, errors.Wrap(err, "list records")
		}
		records = append(records, r)
	}

	return records, errors.Wrap(rows.Err(), "list records")
}

// DeleteRecord removes one record owned by username. Records belonging to
// someone else are reported as missing.
func (db *DB) DeleteRecord(ctx context.Context, id int64, username string) error {
	res, err := sqlb.Delete("saved_expenses").
		Where(sq.Eq{"id": id, "username": username}).
		RunWith(db.conn).
		ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "delete record")
	}
	return expectOne(res, "record %d", id)
}

// DeleteRecordsByUser removes every record of username and returns how many went.
func (db *DB) DeleteRecordsByUser(ctx context.Context, username string) (int64, error) {
	return deleteRecordsByUser(ctx, db.conn, username)
}

func deleteRecordsByUser(ctx context.Context, runner sq.BaseRunner, username string) (int64, error) {
	res, err := sqlb.Delete("saved_expenses").
		Where(sq.Eq{"username": username}).
		RunWith(runner).
		ExecContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "delete records")
	}
	return rowsAffected(res)
}

// MonthlySummary aggregates the user's records dated within the given month.
func (db *DB) MonthlySummary(ctx context.Context, username string, year int, month time.Month) (*models.MonthlySummary, error) {
	ref := now.With(time.Date(year, month, 1, 0, 0, 0, 0, time.Local))

	row := sqlb.Select(
		"COUNT(*)",
		"COALESCE(SUM(income), 0)",
		"COALESCE(SUM(total_expenses), 0)",
		"COALESCE(SUM(balance), 0)",
		"COALESCE(AVG(predicted_expense), 0)",
		"COALESCE(AVG(predicted_financial_score), 0)",
	).
		From("saved_expenses").
		Where(sq.Eq{"username": username}).
		Where(sq.GtOrEq{"date": ref.BeginningOfMonth().Format(dateLayout)}).
		Where(sq.LtOrEq{"date": ref.EndOfMonth().Format(dateLayout)}).
		RunWith(db.conn).
		QueryRowContext(ctx)

	var s models.MonthlySummary
	err := row.Scan(&s.Count, &s.TotalIncome, &s.TotalExpenses, &s.TotalBalance,
		&s.AvgPredictedExpense, &s.AvgFinancialScore)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "monthly summary")
	}
	return &s, nil
}
