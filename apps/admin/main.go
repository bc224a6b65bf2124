package main

import (
	"context"
	"log"
	"os"

	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/attendance"
	"github.com/shalini31102/studentApp/core/student"
	logsvc "github.com/shalini31102/studentApp/services/logger"
	"github.com/shalini31102/studentApp/storage"
	"github.com/shalini31102/studentApp/storage/database"
	mongorepos "github.com/shalini31102/studentApp/storage/database/mongo"
	pgrepos "github.com/shalini31102/studentApp/storage/database/postgres"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	errAndDie(conf.Validate())

	ctx := context.Background()
	cli := commandLine{stdout: os.Stdout}
	var store *storage.Store

	// migrations & indexes are managed here, so the repositories are wired without storage.Open
	switch conf.Database.Engine {
	case core.EnginePostgres:
		errAndDie(database.CreateIfNotExist(conf))
		db, err := database.Open(conf)
		errAndDie(err)
		defer func() { _ = db.Close() }()

		cli.db = db.DB
		store = &storage.Store{
			Students:   pgrepos.NewStudentRepository(db),
			Attendance: pgrepos.NewAttendanceRepository(db),
		}
	case core.EngineMongo:
		client, db, err := mongorepos.Open(ctx, conf)
		errAndDie(err)
		defer func() { _ = client.Disconnect(ctx) }()

		cli.ensureIndexes = func(ctx context.Context) error { return mongorepos.EnsureIndexes(ctx, db) }
		store = &storage.Store{
			Students:   mongorepos.NewStudentRepository(db),
			Attendance: mongorepos.NewAttendanceRepository(db),
		}
	default:
		store = storage.NewMemoryStore()
	}

	svcLogger := logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags), conf)
	svcLogger.Enable(!conf.Debug)
	stuSvc := student.NewService(store.Students, svcLogger)
	cli.attSvc = attendance.NewService(store.Attendance, stuSvc, nil, svcLogger)

	// start CLI
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
