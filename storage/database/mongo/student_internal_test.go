package mongorepos

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/student"
)

func dupKeyErr(msg string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: msg}}}
}

func Test_duplicateStudentErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "studentId",
			err:  dupKeyErr(`E11000 duplicate key error collection: app.students index: studentId_unique dup key: { studentId: "S1" }`),
			want: student.ErrStudentIDExists,
		},
		{
			name: "rollNo",
			err:  dupKeyErr(`E11000 duplicate key error collection: app.students index: rollNo_unique dup key: { rollNo: "R1" }`),
			want: student.ErrRollNoExists,
		},
		{
			name: "qrCode holding another field name",
			err:  dupKeyErr(`E11000 duplicate key error collection: app.students index: qrCode_unique dup key: { qrCode: "rollNo" }`),
			want: student.ErrQRCodeExists,
		},
		{
			name: "wrapped",
			err:  errors.Wrap(dupKeyErr(`E11000 duplicate key error collection: app.students index: rollNo_unique dup key: { rollNo: "R1" }`), "inserting"),
			want: student.ErrRollNoExists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, duplicateStudentErr(tt.err))
		})
	}

	t.Run("unknown index", func(t *testing.T) {
		err := duplicateStudentErr(dupKeyErr(`E11000 duplicate key error collection: app.students index: _id_ dup key: { _id: 1 }`))
		assert.True(t, core.IsStorageError(err))
	})
}
