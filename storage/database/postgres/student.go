package pgrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/student"
)

const studentColumns = `id, student_id, student_name, roll_no, qr_code, class, section, academic_year,
	date_of_birth, gender, interest_profile, created_at`

// orderable columns, keyed by JSON field name
var studentOrderColumns = map[string]string{
	"studentId":   "student_id",
	"studentName": "student_name",
	"rollNo":      "roll_no",
	"class":       "class",
	"section":     "section",
	"createdAt":   "created_at",
}

// unique constraints created by the students migration
var studentConstraintErrs = map[string]error{
	"students_student_id_key": student.ErrStudentIDExists,
	"students_roll_no_key":    student.ErrRollNoExists,
	"students_qr_code_key":    student.ErrQRCodeExists,
}

type studentRow struct {
	ID              string         `db:"id"`
	StudentID       string         `db:"student_id"`
	StudentName     string         `db:"student_name"`
	RollNo          string         `db:"roll_no"`
	QRCode          string         `db:"qr_code"`
	Class           string         `db:"class"`
	Section         string         `db:"section"`
	AcademicYear    null.String    `db:"academic_year"`
	DateOfBirth     string         `db:"date_of_birth"`
	Gender          string         `db:"gender"`
	InterestProfile types.JSONText `db:"interest_profile"`
	CreatedAt       null.Time      `db:"created_at"`
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo studentRepository) toRow(stu student.Student) (studentRow, error) {
	profile, err := json.Marshal(stu.InterestProfile)
	if err != nil {
		return studentRow{}, errors.Wrap(err, "marshalling interest profile")
	}
	return studentRow{
		ID:              stu.ID,
		StudentID:       stu.StudentID,
		StudentName:     stu.StudentName,
		RollNo:          stu.RollNo,
		QRCode:          stu.QRCode,
		Class:           stu.Class,
		Section:         stu.Section,
		AcademicYear:    null.NewString(stu.AcademicYear, stu.AcademicYear != ""),
		DateOfBirth:     stu.DateOfBirth,
		Gender:          stu.Gender,
		InterestProfile: types.JSONText(profile),
		CreatedAt:       null.NewTime(stu.CreatedAt.UTC(), !stu.CreatedAt.IsZero()),
	}, nil
}

func (repo studentRepository) fromRow(row studentRow) (student.Student, error) {
	stu := student.Student{
		ID:           row.ID,
		StudentID:    row.StudentID,
		StudentName:  row.StudentName,
		RollNo:       row.RollNo,
		QRCode:       row.QRCode,
		Class:        row.Class,
		Section:      row.Section,
		AcademicYear: row.AcademicYear.String,
		DateOfBirth:  row.DateOfBirth,
		Gender:       row.Gender,
		CreatedAt:    row.CreatedAt.Time.UTC(),
	}
	if len(row.InterestProfile) > 0 {
		if err := row.InterestProfile.Unmarshal(&stu.InterestProfile); err != nil {
			return student.Student{}, errors.Wrap(err, "unmarshalling interest profile")
		}
	}
	return stu, nil
}

func (repo studentRepository) fromRows(rows []studentRow) ([]student.Student, error) {
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		stu, err := repo.fromRow(row)
		if err != nil {
			return nil, err
		}
		students = append(students, stu)
	}
	return students, nil
}

// trapUniqueErr maps unique violations to the student.Err*Exists errors.
func (repo studentRepository) trapUniqueErr(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if existsErr, ok := studentConstraintErrs[pqErr.Constraint]; ok {
			return existsErr
		}
	}
	return core.NewStorageError(op, err)
}

func (repo studentRepository) CheckUniqueness(ctx context.Context, studentID, rollNo, qrCode string) error {
	var row struct {
		StudentID string `db:"student_id"`
		RollNo    string `db:"roll_no"`
	}
	q := `SELECT student_id, roll_no FROM students WHERE student_id = $1 OR roll_no = $2 OR qr_code = $3 LIMIT 1`
	err := repo.db.GetContext(ctx, &row, q, studentID, rollNo, qrCode)
	switch {
	case err == sql.ErrNoRows:
		return nil
	case err != nil:
		return core.NewStorageError("checking student uniqueness", err)
	case row.StudentID == studentID:
		return student.ErrStudentIDExists
	case row.RollNo == rollNo:
		return student.ErrRollNoExists
	}
	return student.ErrQRCodeExists
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	stu.ID = uuid.New().String()
	row, err := repo.toRow(stu)
	if err != nil {
		return student.Student{}, err
	}

	q := `INSERT INTO students (` + studentColumns + `)
		VALUES (:id, :student_id, :student_name, :roll_no, :qr_code, :class, :section, :academic_year,
			:date_of_birth, :gender, :interest_profile, :created_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return student.Student{}, repo.trapUniqueErr(err, "inserting student")
	}
	return stu, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		// students with StudentName, StudentID, RollNo or Class matching the search keyword
		if filter.Search != "" {
			p := arg("%" + escapeLike(filter.Search) + "%")
			where = append(where, fmt.Sprintf(
				"(student_name ILIKE %[1]s OR student_id ILIKE %[1]s OR roll_no ILIKE %[1]s OR class ILIKE %[1]s)", p))
		}
		if filter.Class != "" {
			where = append(where, "class = "+arg(filter.Class))
		}
		if filter.Section != "" {
			where = append(where, "section = "+arg(filter.Section))
		}
		if filter.Gender != "" {
			where = append(where, "gender = "+arg(filter.Gender))
		}
	}

	q := `SELECT ` + studentColumns + ` FROM students`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	orderList := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if col, ok := studentOrderColumns[ord.Field]; ok {
			orderList = append(orderList, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	orderList = append(orderList, "created_at ASC") // insertion order
	q += " ORDER BY " + strings.Join(orderList, ", ")

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, core.NewStorageError("querying students", err)
	}
	return repo.fromRows(rows)
}

func (repo studentRepository) GetStudentsByStudentID(ctx context.Context, ids ...string) ([]student.Student, error) {
	if len(ids) == 0 {
		return []student.Student{}, nil
	}
	q, args, err := sqlx.In(`SELECT `+studentColumns+` FROM students WHERE student_id IN (?) ORDER BY student_id`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building student IDs query")
	}

	var rows []studentRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, core.NewStorageError("getting students by student ID", err)
	}
	return repo.fromRows(rows)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
