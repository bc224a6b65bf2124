package mongorepos

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/attendance"
)

type recordDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	StudentID   string             `bson:"studentId"`
	StudentName string             `bson:"studentName"`
	Date        string             `bson:"date"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (doc recordDoc) record() attendance.Record {
	return attendance.Record{
		ID:          doc.ID.Hex(),
		StudentID:   doc.StudentID,
		StudentName: doc.StudentName,
		Date:        doc.Date,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}
}

type attendanceRepository struct {
	coll *mongo.Collection
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *mongo.Database) attendance.Repository {
	return &attendanceRepository{coll: db.Collection(attendanceCollection)}
}

// UpsertRecord is a single conditional write backed by the unique (studentId, date) index.
// Two concurrent inserts on one key make one of them fail with a duplicate key error;
// the retry then finds the winner's document and updates it.
func (repo attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	filter := bson.D{{Key: "studentId", Value: rec.StudentID}, {Key: "date", Value: rec.Date}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "status", Value: rec.Status},
			{Key: "updatedAt", Value: rec.UpdatedAt.UTC()},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "studentName", Value: rec.StudentName},
			{Key: "createdAt", Value: rec.CreatedAt.UTC()},
		}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc recordDoc
	err := repo.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		err = repo.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	}
	if err != nil {
		return attendance.Record{}, core.NewStorageError("upserting attendance record", err)
	}
	return doc.record(), nil
}

func (repo attendanceRepository) find(ctx context.Context, filter bson.D, op string) ([]attendance.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, core.NewStorageError(op, err)
	}
	var docs []recordDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, core.NewStorageError(op, err)
	}
	records := make([]attendance.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.record())
	}
	return records, nil
}

func (repo attendanceRepository) FindByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	return repo.find(ctx, bson.D{{Key: "date", Value: date}}, "finding attendance by date")
}

func (repo attendanceRepository) FindInRange(ctx context.Context, start, end string) ([]attendance.Record, error) {
	filter := bson.D{{Key: "date", Value: bson.D{{Key: "$gte", Value: start}, {Key: "$lte", Value: end}}}}
	return repo.find(ctx, filter, "finding attendance in range")
}
