package attendance

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shalini31102/studentApp/core"
)

// Status values counted by the monthly report. Any other value is stored but never tallied.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "halfday"
)

// nowFunc is mockable in tests.
var nowFunc = time.Now

// Record is the attendance of one student on one date. (StudentID, Date) is unique.
type Record struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	StudentName string    `json:"studentName"` // as first recorded
	Date        string    `json:"date"`        // opaque, YYYY-MM-DD by convention
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"` // UTC
	UpdatedAt   time.Time `json:"updatedAt"` // UTC
}

// NewRecord contains information needed to record a student's attendance.
type NewRecord struct {
	StudentID   string `json:"studentId" validate:"required,notblank"`
	StudentName string `json:"studentName" validate:"required,notblank"`
	Date        string `json:"date" validate:"required,notblank"`
	Status      string `json:"status" validate:"required,notblank"`
}

func (nr *NewRecord) Clean() {
	nr.StudentID = core.CleanString(nr.StudentID)
	nr.StudentName = core.CleanString(nr.StudentName)
	nr.Date = core.CleanString(nr.Date)
	nr.Status = core.CleanString(nr.Status)
}

func (nr *NewRecord) Validate(_ context.Context, validate *validator.Validate) error {
	nr.Clean()
	return validate.Struct(nr)
}

// ReportRow is one student's monthly tally joined with its roster entry.
type ReportRow struct {
	StudentID string `json:"studentId"`
	Present   int    `json:"present"`
	Absent    int    `json:"absent"`
	HalfDay   int    `json:"halfday"`
	RollNo    string `json:"rollNo"`
	Class     string `json:"class"`
	Section   string `json:"section"`
}
