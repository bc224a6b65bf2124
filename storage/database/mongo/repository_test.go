package mongorepos_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/storage/database/mongo"
	"github.com/shalini31102/studentApp/tests"
)

// openTestDB connects to TEST_MONGO_URI and returns a fresh indexed database, dropped on cleanup.
func openTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	if os.Getenv("TEST_MONGO_URI") == "" {
		t.Skip("TEST_MONGO_URI is not set")
	}
	ctx := context.Background()
	t.Setenv("ENV", "TEST")
	conf := core.NewConfig()
	conf.Mongo.Name += "_" + t.Name()

	client, db, err := mongorepos.Open(ctx, conf)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	require.NoError(t, db.Drop(ctx))
	require.NoError(t, mongorepos.EnsureIndexes(ctx, db))
	return db
}

func TestAttendanceRepository(t *testing.T) {
	testutil.CheckAttendanceRepository(t, mongorepos.NewAttendanceRepository(openTestDB(t)))
}

func TestStudentRepository(t *testing.T) {
	testutil.CheckStudentRepository(t, mongorepos.NewStudentRepository(openTestDB(t)))
}
