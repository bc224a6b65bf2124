package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shalini31102/studentApp/core"
)

// collection names
const (
	studentsCollection   = "students"
	attendanceCollection = "attendances"
)

// Open connects to MongoDB and pings the primary.
func Open(ctx context.Context, conf *core.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, conf.Mongo.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Mongo.URI).SetAppName(conf.AppName))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrap(err, "pinging mongodb")
	}
	return client, client.Database(conf.Mongo.Name), nil
}

// EnsureIndexes creates the unique indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(keys bson.D, name string) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true).SetName(name)}
	}

	students := []mongo.IndexModel{
		unique(bson.D{{Key: "studentId", Value: 1}}, "studentId_unique"),
		unique(bson.D{{Key: "rollNo", Value: 1}}, "rollNo_unique"),
		unique(bson.D{{Key: "qrCode", Value: 1}}, "qrCode_unique"),
	}
	if _, err := db.Collection(studentsCollection).Indexes().CreateMany(ctx, students); err != nil {
		return errors.Wrap(err, "creating student indexes")
	}

	records := []mongo.IndexModel{
		unique(bson.D{{Key: "studentId", Value: 1}, {Key: "date", Value: 1}}, "studentId_date_unique"),
		{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetName("date")},
	}
	if _, err := db.Collection(attendanceCollection).Indexes().CreateMany(ctx, records); err != nil {
		return errors.Wrap(err, "creating attendance indexes")
	}
	return nil
}
