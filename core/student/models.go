package student

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shalini31102/studentApp/core"
)

// Genders
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Learning profile defaults
const (
	DefaultSection       = "A"
	DefaultLearningPace  = "medium"
	DefaultLearningStyle = "visual"
)

// filterAll is the "no filter" value sent by the mobile client's filter chips.
const filterAll = "All"

var Genders = []string{GenderMale, GenderFemale, GenderOther}

// nowFunc is mockable in tests.
var nowFunc = time.Now

type InterestProfile struct {
	Subjects      []string `json:"subjects"`
	Hobbies       []string `json:"hobbies"`
	CareerGoals   string   `json:"careerGoals"`
	SkillsToLearn []string `json:"skillsToLearn"`
	LearningPace  string   `json:"learningPace" validate:"omitempty,oneof=slow medium fast"`
	LearningStyle string   `json:"learningStyle" validate:"omitempty,oneof=visual auditory reading kinesthetic"`
}

// Student is a roster entry. StudentID is the business key used by attendance records.
type Student struct {
	ID              string          `json:"id"`
	StudentID       string          `json:"studentId"`
	StudentName     string          `json:"studentName"`
	RollNo          string          `json:"rollNo"`
	QRCode          string          `json:"qrCode"`
	Class           string          `json:"class"`
	Section         string          `json:"section"`
	AcademicYear    string          `json:"academicYear"`
	DateOfBirth     string          `json:"dateOfBirth"`
	Gender          string          `json:"gender"`
	InterestProfile InterestProfile `json:"interestProfile"`
	CreatedAt       time.Time       `json:"createdAt"` // UTC
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	StudentID       string          `json:"studentId" validate:"required,notblank"`
	StudentName     string          `json:"studentName" validate:"required,notblank"`
	RollNo          string          `json:"rollNo" validate:"required,notblank"`
	QRCode          string          `json:"qrCode" validate:"required,notblank"`
	Class           string          `json:"class" validate:"required,notblank"`
	Section         string          `json:"section"`
	AcademicYear    string          `json:"academicYear" validate:"omitempty,academicyear"`
	DateOfBirth     string          `json:"dateOfBirth" validate:"required"`
	Gender          string          `json:"gender" validate:"required,oneof=Male Female Other"`
	InterestProfile InterestProfile `json:"interestProfile"`
}

// Clean trims fields and applies the roster defaults.
func (ns *NewStudent) Clean() {
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.StudentName = core.CleanString(ns.StudentName)
	ns.RollNo = core.CleanString(ns.RollNo)
	ns.QRCode = core.CleanString(ns.QRCode)
	ns.Class = core.CleanString(ns.Class)
	ns.Section = strings.ToUpper(core.CleanString(ns.Section))
	if ns.Section == "" {
		ns.Section = DefaultSection
	}
	ns.AcademicYear = core.CleanString(ns.AcademicYear)
	if ns.AcademicYear == "" {
		ns.AcademicYear = defaultAcademicYear()
	}
	ns.DateOfBirth = core.CleanString(ns.DateOfBirth)
	ns.Gender = core.CleanString(ns.Gender)

	ip := &ns.InterestProfile
	ip.CareerGoals = core.CleanString(ip.CareerGoals)
	ip.LearningPace = core.CleanString(ip.LearningPace, true /* lower */)
	if ip.LearningPace == "" {
		ip.LearningPace = DefaultLearningPace
	}
	ip.LearningStyle = core.CleanString(ip.LearningStyle, true /* lower */)
	if ip.LearningStyle == "" {
		ip.LearningStyle = DefaultLearningStyle
	}
	ip.Subjects = cleanList(ip.Subjects)
	ip.Hobbies = cleanList(ip.Hobbies)
	ip.SkillsToLearn = cleanList(ip.SkillsToLearn)
}

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	ns.Clean()
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ns.StudentID, ns.RollNo, ns.QRCode)
}

func defaultAcademicYear() string {
	year := nowFunc().Year()
	return fmt.Sprintf("%d-%d", year, year+1)
}

func cleanList(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = core.CleanString(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}

// QueryFilter mirrors the mobile client's list filters.
// Search does a case-insensitive substring match on StudentName, StudentID, RollNo or Class.
type QueryFilter struct {
	Search  string `query:"search"`
	Class   string `query:"class"`
	Section string `query:"section"`
	Gender  string `query:"gender"`
}

// Clean trims the filter values and drops the "All" placeholders.
func (f *QueryFilter) Clean() {
	clean := func(s string) string {
		s = core.CleanString(s)
		if strings.EqualFold(s, filterAll) {
			return ""
		}
		return s
	}
	f.Search = core.CleanString(f.Search)
	f.Class = clean(f.Class)
	f.Section = strings.ToUpper(clean(f.Section))
	f.Gender = clean(f.Gender)
}

func (f *QueryFilter) IsEmpty() bool {
	return f == nil || (f.Search == "" && f.Class == "" && f.Section == "" && f.Gender == "")
}

// Match reports whether stu passes the filter. Used by in-memory storage.
func (f *QueryFilter) Match(stu Student) bool {
	if f == nil {
		return true
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		found := false
		for _, fld := range []string{stu.StudentName, stu.StudentID, stu.RollNo, stu.Class} {
			if strings.Contains(strings.ToLower(fld), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Class != "" && stu.Class != f.Class {
		return false
	}
	if f.Section != "" && stu.Section != f.Section {
		return false
	}
	if f.Gender != "" && stu.Gender != f.Gender {
		return false
	}
	return true
}

// Filters lists the distinct values the roster can be filtered by.
type Filters struct {
	Classes  []string `json:"classes"`
	Sections []string `json:"sections"`
	Genders  []string `json:"genders"`
}

// Orderable fields, keyed by their JSON name.
var OrderingFields = []string{"studentId", "studentName", "rollNo", "class", "section", "createdAt"}

// CleanOrdering drops orderings on unknown fields.
func CleanOrdering(ordering []core.DBOrdering) []core.DBOrdering {
	var cleaned []core.DBOrdering
	for _, ord := range ordering {
		for _, fld := range OrderingFields {
			if ord.Field == fld {
				cleaned = append(cleaned, ord)
				break
			}
		}
	}
	return cleaned
}
