package inmemdb

import (
	"sync"

	"github.com/shalini31102/studentApp/core/attendance"
	"github.com/shalini31102/studentApp/core/student"
)

type (
	DB struct {
		student    *studentTable
		attendance *attendanceTable
	}

	studentTable struct {
		sync.RWMutex
		pkCount int
		rows    []*student.Student // insertion order
	}

	recordKey struct {
		studentID string
		date      string
	}

	attendanceTable struct {
		sync.RWMutex
		pkCount int
		keys    []recordKey // insertion order
		table   map[recordKey]*attendance.Record
	}
)

func Open() *DB {
	return &DB{
		student:    &studentTable{},
		attendance: &attendanceTable{table: make(map[recordKey]*attendance.Record)},
	}
}
