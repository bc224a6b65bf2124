package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shalini31102/studentApp/core/attendance"
	"github.com/shalini31102/studentApp/core/student"
)

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	studentID, name, rollNo, class, section string,
	createdAt ...time.Time,
) student.Student {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	stu := student.Student{
		StudentID:    studentID,
		StudentName:  name,
		RollNo:       rollNo,
		QRCode:       "QR-" + studentID,
		Class:        class,
		Section:      section,
		AcademicYear: "2024-2025",
		DateOfBirth:  "2010-01-01",
		Gender:       student.GenderFemale,
		InterestProfile: student.InterestProfile{
			Subjects:      []string{},
			Hobbies:       []string{},
			SkillsToLearn: []string{},
			LearningPace:  student.DefaultLearningPace,
			LearningStyle: student.DefaultLearningStyle,
		},
		CreatedAt: tstamp,
	}
	stu, err := repo.CreateStudent(context.Background(), stu)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func RecordAttendance(t *testing.T, repo attendance.Repository, studentID, name, date, status string) attendance.Record {
	now := time.Now().UTC()
	rec, err := repo.UpsertRecord(context.Background(), attendance.Record{
		StudentID:   studentID,
		StudentName: name,
		Date:        date,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("RecordAttendance() failed: %v", err)
	}
	return rec
}
