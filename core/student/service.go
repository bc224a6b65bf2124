package student

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/shalini31102/studentApp/core"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrStudentIDExists = errors.New("a student with this student ID already exists")
	ErrRollNoExists    = errors.New("a student with this roll number already exists")
	ErrQRCodeExists    = errors.New("a student with this QR code already exists")
)

type (
	Repository interface {
		// CheckUniqueness returns one of ErrStudentIDExists, ErrRollNoExists or ErrQRCodeExists
		// when a student already holds one of the provided keys.
		CheckUniqueness(ctx context.Context, studentID, rollNo, qrCode string) error
		// CreateStudent may also return one of the Err*Exists errors when a unique key is violated on write.
		CreateStudent(ctx context.Context, stu Student) (Student, error)
		// QueryStudents applies AND operation on available QueryFilter fields.
		// Students are returned in insertion order when no ordering is given.
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		// GetStudentsByStudentID returns the students matching the ids; unknown ids are skipped.
		GetStudentsByStudentID(ctx context.Context, ids ...string) ([]Student, error)
	}

	// RosterObserver is notified once a student has been added to the roster.
	RosterObserver interface {
		RosterChanged(ctx context.Context) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, studentID, rollNo, qrCode string) error
		Create(ctx context.Context, ns NewStudent) (Student, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		Filters(ctx context.Context) (Filters, error)
		GetByStudentIDs(ctx context.Context, ids ...string) ([]Student, error)
	}

	service struct {
		repo      Repository
		logger    core.Logger
		observers []RosterObserver
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger, observers ...RosterObserver) Service {
	return &service{
		repo:      repo,
		logger:    logger,
		observers: observers,
	}
}

func (svc *service) CheckUniqueness(ctx context.Context, studentID, rollNo, qrCode string) error {
	return svc.trapExistsErr(svc.repo.CheckUniqueness(ctx, studentID, rollNo, qrCode))
}

// trapExistsErr maps the Err*Exists errors to a core.ValidationError on the offending field.
func (svc *service) trapExistsErr(err error) error {
	if err == nil {
		return nil
	}
	var field string
	switch errors.Cause(err) {
	case ErrStudentIDExists:
		field = "studentId"
	case ErrRollNoExists:
		field = "rollNo"
	case ErrQRCodeExists:
		field = "qrCode"
	default:
		return err
	}
	cause := errors.Cause(err)
	return core.NewValidationError(cause, core.FieldError{Field: field, Error: cause.Error()})
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	stu := Student{
		StudentID:       ns.StudentID,
		StudentName:     ns.StudentName,
		RollNo:          ns.RollNo,
		QRCode:          ns.QRCode,
		Class:           ns.Class,
		Section:         ns.Section,
		AcademicYear:    ns.AcademicYear,
		DateOfBirth:     ns.DateOfBirth,
		Gender:          ns.Gender,
		InterestProfile: ns.InterestProfile,
		CreatedAt:       nowFunc().UTC(),
	}
	stu, err := svc.repo.CreateStudent(ctx, stu)
	if err != nil {
		return Student{}, svc.trapExistsErr(err)
	}

	for _, obs := range svc.observers {
		if err := obs.RosterChanged(ctx); err != nil {
			svc.logger.Warn("notifying roster change", errors.Wrap(err, "student created"))
		}
	}
	return stu, nil
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryStudents(ctx, filter, CleanOrdering(ordering))
}

func (svc *service) Filters(ctx context.Context) (Filters, error) {
	students, err := svc.repo.QueryStudents(ctx, nil, nil)
	if err != nil {
		return Filters{}, errors.Wrap(err, "querying students")
	}
	classes := make(map[string]struct{})
	sections := make(map[string]struct{})
	genders := make(map[string]struct{})
	for _, stu := range students {
		classes[stu.Class] = struct{}{}
		sections[stu.Section] = struct{}{}
		genders[stu.Gender] = struct{}{}
	}
	return Filters{
		Classes:  sortedKeys(classes),
		Sections: sortedKeys(sections),
		Genders:  sortedKeys(genders),
	}, nil
}

func (svc *service) GetByStudentIDs(ctx context.Context, ids ...string) ([]Student, error) {
	if len(ids) == 0 {
		return []Student{}, nil
	}
	return svc.repo.GetStudentsByStudentID(ctx, ids...)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
