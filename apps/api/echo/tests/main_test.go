package tests

import (
	"context"
	"sync"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/shalini31102/studentApp/apps/api/echo"
	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/attendance"
	"github.com/shalini31102/studentApp/core/student"
	"github.com/shalini31102/studentApp/services/logger"
	"github.com/shalini31102/studentApp/storage"
)

var errStorageDown = core.NewStorageError("querying", context.DeadlineExceeded)

type testApp struct {
	server *echoapi.Server
	store  *storage.Store
	stuSvc student.Service
	attSvc attendance.Service
	logs   *warnLog
}

// warnLog keeps the field errors logged with rejected requests.
type warnLog struct {
	core.Logger
	mu     sync.Mutex
	fields []interface{}
}

func (l *warnLog) Warn(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, arg := range args {
		if extras, ok := arg.(map[string]interface{}); ok {
			l.fields = append(l.fields, extras["fields"])
		}
	}
}

// lastFields returns the last logged field errors, or nil.
func (l *warnLog) lastFields() interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.fields) == 0 {
		return nil
	}
	return l.fields[len(l.fields)-1]
}

func newDeps(logger core.Logger, stuSvc student.Service, attSvc attendance.Service) echoapi.ServerDeps {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	return echoapi.ServerDeps{
		Conf: &core.Config{
			Env:      "TEST",
			TestMode: true,
			Server:   core.ServerConfig{DisableReqLogs: true},
		},
		Logger:        logger,
		StudentSvc:    stuSvc,
		AttendanceSvc: attSvc,
		Validate:      validate,
		Translator:    translator,
	}
}

func setup(t *testing.T) testApp {
	t.Helper()
	store := storage.NewMemoryStore()
	logger := logsvc.NewDiscardLogger()
	stuSvc := student.NewService(store.Students, logger)
	attSvc := attendance.NewService(store.Attendance, stuSvc, nil, logger)
	logs := &warnLog{Logger: logger}

	return testApp{
		server: echoapi.NewServer(newDeps(logs, stuSvc, attSvc)),
		store:  store,
		stuSvc: stuSvc,
		attSvc: attSvc,
		logs:   logs,
	}
}

// brokenStudentRepo fails every call.
type brokenStudentRepo struct{}

func (brokenStudentRepo) CheckUniqueness(context.Context, string, string, string) error {
	return errStorageDown
}

func (brokenStudentRepo) CreateStudent(context.Context, student.Student) (student.Student, error) {
	return student.Student{}, errStorageDown
}

func (brokenStudentRepo) QueryStudents(context.Context, *student.QueryFilter, []core.DBOrdering) ([]student.Student, error) {
	return nil, errStorageDown
}

func (brokenStudentRepo) GetStudentsByStudentID(context.Context, ...string) ([]student.Student, error) {
	return nil, errStorageDown
}

// brokenAttendanceRepo fails every call.
type brokenAttendanceRepo struct{}

func (brokenAttendanceRepo) UpsertRecord(context.Context, attendance.Record) (attendance.Record, error) {
	return attendance.Record{}, errStorageDown
}

func (brokenAttendanceRepo) FindByDate(context.Context, string) ([]attendance.Record, error) {
	return nil, errStorageDown
}

func (brokenAttendanceRepo) FindInRange(context.Context, string, string) ([]attendance.Record, error) {
	return nil, errStorageDown
}

func setupBroken(t *testing.T) *echoapi.Server {
	t.Helper()
	logger := logsvc.NewDiscardLogger()
	stuSvc := student.NewService(brokenStudentRepo{}, logger)
	attSvc := attendance.NewService(brokenAttendanceRepo{}, stuSvc, nil, logger)
	return echoapi.NewServer(newDeps(logger, stuSvc, attSvc))
}
