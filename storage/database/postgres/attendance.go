package pgrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/attendance"
)

const uniqueViolation = pq.ErrorCode("23505")

const recordColumns = `id, student_id, student_name, date, status, created_at, updated_at`

type recordRow struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	StudentName string    `db:"student_name"`
	Date        string    `db:"date"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row recordRow) record() attendance.Record {
	return attendance.Record{
		ID:          row.ID,
		StudentID:   row.StudentID,
		StudentName: row.StudentName,
		Date:        row.Date,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func records(rows []recordRow) []attendance.Record {
	recs := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.record())
	}
	return recs
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

// UpsertRecord relies on the (student_id, date) unique constraint: concurrent writers on one key
// resolve to a single row, the last one setting the status.
func (repo attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := `INSERT INTO attendance (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT attendance_student_date_key
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING ` + recordColumns

	var row recordRow
	err := repo.db.GetContext(ctx, &row, q,
		uuid.New().String(), rec.StudentID, rec.StudentName, rec.Date, rec.Status,
		rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	if err != nil {
		return attendance.Record{}, core.NewStorageError("upserting attendance record", err)
	}
	return row.record(), nil
}

func (repo attendanceRepository) FindByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	var rows []recordRow
	q := `SELECT ` + recordColumns + ` FROM attendance WHERE date = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q, date); err != nil {
		return nil, core.NewStorageError("finding attendance by date", err)
	}
	return records(rows), nil
}

func (repo attendanceRepository) FindInRange(ctx context.Context, start, end string) ([]attendance.Record, error) {
	var rows []recordRow
	q := `SELECT ` + recordColumns + ` FROM attendance
		WHERE date >= $1 AND date <= $2 ORDER BY date, student_id`
	if err := repo.db.SelectContext(ctx, &rows, q, start, end); err != nil {
		return nil, core.NewStorageError("finding attendance in range", err)
	}
	return records(rows), nil
}
