package inmemdb

import (
	"context"
	"sort"
	"strconv"

	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) checkUniqueness(studentID, rollNo, qrCode string) error {
	for _, stu := range repo.db.rows {
		switch {
		case stu.StudentID == studentID:
			return student.ErrStudentIDExists
		case stu.RollNo == rollNo:
			return student.ErrRollNoExists
		case stu.QRCode == qrCode:
			return student.ErrQRCodeExists
		}
	}
	return nil
}

func (repo *studentRepository) CheckUniqueness(_ context.Context, studentID, rollNo, qrCode string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.checkUniqueness(studentID, rollNo, qrCode)
}

func (repo *studentRepository) CreateStudent(_ context.Context, stu student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.checkUniqueness(stu.StudentID, stu.RollNo, stu.QRCode); err != nil {
		return student.Student{}, err
	}
	repo.db.pkCount++
	stu.ID = strconv.Itoa(repo.db.pkCount)
	repo.db.rows = append(repo.db.rows, &stu)
	return stu, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.rows))
	for _, stu := range repo.db.rows {
		if filter.Match(*stu) {
			students = append(students, *stu)
		}
	}
	if len(ordering) > 0 {
		sort.SliceStable(students, func(i, j int) bool { return less(students[i], students[j], ordering) })
	}
	return students, nil
}

func (repo *studentRepository) GetStudentsByStudentID(_ context.Context, ids ...string) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	students := make([]student.Student, 0, len(ids))
	for _, stu := range repo.db.rows {
		if wanted[stu.StudentID] {
			students = append(students, *stu)
		}
	}
	return students, nil
}

func less(a, b student.Student, ordering []core.DBOrdering) bool {
	for _, ord := range ordering {
		var cmp int
		if ord.Field == "createdAt" {
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		} else {
			cmp = compareStrings(fieldValue(a, ord.Field), fieldValue(b, ord.Field))
		}
		if cmp == 0 {
			continue
		}
		if ord.Ascending {
			return cmp < 0
		}
		return cmp > 0
	}
	return false
}

func fieldValue(stu student.Student, field string) string {
	switch field {
	case "studentId":
		return stu.StudentID
	case "studentName":
		return stu.StudentName
	case "rollNo":
		return stu.RollNo
	case "class":
		return stu.Class
	case "section":
		return stu.Section
	}
	return ""
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
