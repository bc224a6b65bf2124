package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shalini31102/studentApp/core/attendance"
	"github.com/shalini31102/studentApp/core/student"
)

// CheckAttendanceRepository runs the behaviour every attendance.Repository must share against an empty store.
func CheckAttendanceRepository(t *testing.T, repo attendance.Repository) {
	ctx := context.Background()

	t.Run("upsert keeps one record per key", func(t *testing.T) {
		first := RecordAttendance(t, repo, "S1", "Alice", "2024-03-05", attendance.StatusPresent)
		second := RecordAttendance(t, repo, "S1", "Alicia", "2024-03-05", attendance.StatusAbsent)

		assert.NotEmpty(t, first.ID)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, attendance.StatusAbsent, second.Status)
		assert.Equal(t, "Alice", second.StudentName)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

		records, err := repo.FindByDate(ctx, "2024-03-05")
		require.NoError(t, err)
		if assert.Len(t, records, 1) {
			assert.Equal(t, attendance.StatusAbsent, records[0].Status)
			assert.Equal(t, "Alice", records[0].StudentName)
		}
	})

	t.Run("range bounds are inclusive", func(t *testing.T) {
		for _, date := range []string{"2031-01-31", "2031-02-01", "2031-02-15", "2031-02-28", "2031-03-01"} {
			RecordAttendance(t, repo, "S2", "Bob", date, attendance.StatusPresent)
		}

		records, err := repo.FindInRange(ctx, "2031-02-01", "2031-02-28")
		require.NoError(t, err)
		dates := make([]string, 0, len(records))
		for _, rec := range records {
			dates = append(dates, rec.Date)
		}
		assert.ElementsMatch(t, []string{"2031-02-01", "2031-02-15", "2031-02-28"}, dates)
	})

	t.Run("range compares bytes", func(t *testing.T) {
		// "2032-02-2Z" sorts after "2032-02-28" byte-wise only
		for _, date := range []string{"2032-02-1", "2032-02-2Z", "2032-02-a1"} {
			RecordAttendance(t, repo, "S3", "Carol", date, attendance.StatusPresent)
		}

		records, err := repo.FindInRange(ctx, "2032-02-01", "2032-02-28")
		require.NoError(t, err)
		if assert.Len(t, records, 1) {
			assert.Equal(t, "2032-02-1", records[0].Date)
		}
	})

	t.Run("concurrent upserts", func(t *testing.T) {
		statuses := []string{attendance.StatusPresent, attendance.StatusAbsent, attendance.StatusHalfDay}
		var wg sync.WaitGroup
		errs := make(chan error, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec := attendance.Record{
					StudentID:   "S4",
					StudentName: fmt.Sprintf("Dan %d", i),
					Date:        "2033-01-10",
					Status:      statuses[i%len(statuses)],
				}
				if _, err := repo.UpsertRecord(ctx, rec); err != nil {
					errs <- err
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("UpsertRecord() error = %v", err)
		}

		records, err := repo.FindByDate(ctx, "2033-01-10")
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

// CheckStudentRepository runs the behaviour every student.Repository must share against an empty store.
func CheckStudentRepository(t *testing.T, repo student.Repository) {
	ctx := context.Background()
	taken := CreateStudent(t, repo, "S1", "Alice", "R1", "10", "A")
	assert.NotEmpty(t, taken.ID)

	tests := []struct {
		name                      string
		studentID, rollNo, qrCode string
		want                      error
	}{
		{name: "studentId", studentID: "S1", rollNo: "R2", qrCode: "QR-2", want: student.ErrStudentIDExists},
		{name: "rollNo", studentID: "S2", rollNo: "R1", qrCode: "QR-2", want: student.ErrRollNoExists},
		{name: "qrCode", studentID: "S2", rollNo: "R2", qrCode: "QR-S1", want: student.ErrQRCodeExists},
		{name: "free", studentID: "S2", rollNo: "R2", qrCode: "QR-2"},
	}
	for _, tt := range tests {
		t.Run("check "+tt.name, func(t *testing.T) {
			err := repo.CheckUniqueness(ctx, tt.studentID, tt.rollNo, tt.qrCode)
			assert.Equal(t, tt.want, errors.Cause(err))
		})
	}
	for _, tt := range tests {
		if tt.want == nil {
			continue
		}
		t.Run("create "+tt.name, func(t *testing.T) {
			stu := taken
			stu.ID = ""
			stu.StudentID, stu.RollNo, stu.QRCode = tt.studentID, tt.rollNo, tt.qrCode
			_, err := repo.CreateStudent(ctx, stu)
			assert.Equal(t, tt.want, errors.Cause(err))
		})
	}

	t.Run("lookup", func(t *testing.T) {
		CreateStudent(t, repo, "S3", "Bob", "R3", "9", "B")
		students, err := repo.GetStudentsByStudentID(ctx, "S3", "S1", "UNKNOWN")
		require.NoError(t, err)
		ids := make([]string, 0, len(students))
		for _, stu := range students {
			ids = append(ids, stu.StudentID)
		}
		assert.ElementsMatch(t, []string{"S1", "S3"}, ids)
	})
}
