package inmemdb

import (
	"context"
	"strconv"

	"github.com/shalini31102/studentApp/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) UpsertRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := recordKey{studentID: rec.StudentID, date: rec.Date}
	if orig, ok := repo.db.table[key]; ok {
		orig.Status = rec.Status
		orig.UpdatedAt = rec.UpdatedAt
		return *orig, nil
	}

	repo.db.pkCount++
	rec.ID = strconv.Itoa(repo.db.pkCount)
	repo.db.table[key] = &rec
	repo.db.keys = append(repo.db.keys, key)
	return rec, nil
}

func (repo *attendanceRepository) find(match func(rec *attendance.Record) bool) []attendance.Record {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]attendance.Record, 0)
	for _, key := range repo.db.keys {
		if rec := repo.db.table[key]; match(rec) {
			records = append(records, *rec)
		}
	}
	return records
}

func (repo *attendanceRepository) FindByDate(_ context.Context, date string) ([]attendance.Record, error) {
	return repo.find(func(rec *attendance.Record) bool { return rec.Date == date }), nil
}

func (repo *attendanceRepository) FindInRange(_ context.Context, start, end string) ([]attendance.Record, error) {
	return repo.find(func(rec *attendance.Record) bool { return rec.Date >= start && rec.Date <= end }), nil
}
