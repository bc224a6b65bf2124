// Package storage opens the repositories of the configured database engine.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/attendance"
	"github.com/shalini31102/studentApp/core/student"
	"github.com/shalini31102/studentApp/storage/database"
	"github.com/shalini31102/studentApp/storage/database/inmem"
	"github.com/shalini31102/studentApp/storage/database/mongo"
	"github.com/shalini31102/studentApp/storage/database/postgres"
)

type Store struct {
	Students   student.Repository
	Attendance attendance.Repository
	close      func() error
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewMemoryStore returns a Store that lives for the duration of the process.
func NewMemoryStore() *Store {
	db := inmemdb.Open()
	return &Store{
		Students:   inmemdb.NewStudentRepository(db),
		Attendance: inmemdb.NewAttendanceRepository(db),
	}
}

// Open connects to conf.Database.Engine. PostgreSQL migrations are applied and MongoDB indexes created.
func Open(ctx context.Context, conf *core.Config) (*Store, error) {
	switch conf.Database.Engine {
	case core.EngineMemory:
		return NewMemoryStore(), nil

	case core.EnginePostgres:
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, errors.Wrap(err, "creating database")
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{
			Students:   pgrepos.NewStudentRepository(db),
			Attendance: pgrepos.NewAttendanceRepository(db),
			close:      db.Close,
		}, nil

	case core.EngineMongo:
		client, db, err := mongorepos.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err = mongorepos.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Students:   mongorepos.NewStudentRepository(db),
			Attendance: mongorepos.NewAttendanceRepository(db),
			close:      func() error { return client.Disconnect(context.Background()) },
		}, nil
	}
	return nil, errors.Errorf("unknown storage engine %q", conf.Database.Engine)
}
