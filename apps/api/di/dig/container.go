package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/shalini31102/studentApp/apps/api/echo"
	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/attendance"
	"github.com/shalini31102/studentApp/core/student"
	cachesvc "github.com/shalini31102/studentApp/services/cache"
	logsvc "github.com/shalini31102/studentApp/services/logger"
	"github.com/shalini31102/studentApp/storage"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newConfig() (*core.Config, error) {
	conf := core.NewConfig()
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return conf, nil
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStore(conf *core.Config, loggerParam DBLoggerParam) *storage.Store {
	store, err := storage.Open(context.Background(), conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s storage: %v", conf.Database.Engine, err), err)
	}
	return store
}

func newStudentRepository(store *storage.Store) student.Repository {
	return store.Students
}

func newAttendanceRepository(store *storage.Store) attendance.Repository {
	return store.Attendance
}

// newReportCache returns nil when Redis is not configured or unreachable: reports are then computed on every request.
func newReportCache(conf *core.Config, logger core.Logger) *cachesvc.ReportCache {
	client, err := cachesvc.Connect(context.Background(), conf)
	if err != nil {
		logger.Warn(fmt.Sprintf("report cache disabled: %v", err), err)
		return nil
	}
	if client == nil {
		logger.Info("report cache disabled: no redis address")
		return nil
	}
	return cachesvc.NewReportCache(client, conf.AppName, conf.Redis.ReportTTL)
}

func newStudentService(repo student.Repository, logger core.Logger, cache *cachesvc.ReportCache) student.Service {
	var observers []student.RosterObserver
	if cache != nil {
		observers = append(observers, cache)
	}
	return student.NewService(repo, logger, observers...)
}

func newAttendanceService(
	repo attendance.Repository,
	stuSvc student.Service,
	cache *cachesvc.ReportCache,
	logger core.Logger,
) attendance.Service {
	var reportCache attendance.ReportCache
	if cache != nil {
		reportCache = cache
	}
	return attendance.NewService(repo, stuSvc, reportCache, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	return validate
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newServerDeps(
	conf *core.Config,
	logger core.Logger,
	stuSvc student.Service,
	attSvc attendance.Service,
	validate *validator.Validate,
	translator ut.Translator,
) echoapi.ServerDeps {
	return echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		StudentSvc:    stuSvc,
		AttendanceSvc: attSvc,
		Validate:      validate,
		Translator:    translator,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newStudentRepository))
	must(c.Provide(newAttendanceRepository))
	must(c.Provide(newReportCache))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newStudentService))
	must(c.Provide(newAttendanceService))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
