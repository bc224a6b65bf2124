package inmemdb_test

import (
	"testing"

	"github.com/shalini31102/studentApp/storage/database/inmem"
	"github.com/shalini31102/studentApp/tests"
)

func TestAttendanceRepository(t *testing.T) {
	testutil.CheckAttendanceRepository(t, inmemdb.NewAttendanceRepository(inmemdb.Open()))
}

func TestStudentRepository(t *testing.T) {
	testutil.CheckStudentRepository(t, inmemdb.NewStudentRepository(inmemdb.Open()))
}
