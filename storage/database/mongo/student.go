package mongorepos

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/student"
)

type interestProfileDoc struct {
	Subjects      []string `bson:"subjects"`
	Hobbies       []string `bson:"hobbies"`
	CareerGoals   string   `bson:"careerGoals,omitempty"`
	SkillsToLearn []string `bson:"skillsToLearn"`
	LearningPace  string   `bson:"learningPace"`
	LearningStyle string   `bson:"learningStyle"`
}

type studentDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	StudentID       string             `bson:"studentId"`
	StudentName     string             `bson:"studentName"`
	RollNo          string             `bson:"rollNo"`
	QRCode          string             `bson:"qrCode"`
	Class           string             `bson:"class"`
	Section         string             `bson:"section"`
	AcademicYear    string             `bson:"academicYear"`
	DateOfBirth     string             `bson:"dateOfBirth"`
	Gender          string             `bson:"gender"`
	InterestProfile interestProfileDoc `bson:"interestProfile"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

func toStudentDoc(stu student.Student) studentDoc {
	ip := stu.InterestProfile
	return studentDoc{
		StudentID:    stu.StudentID,
		StudentName:  stu.StudentName,
		RollNo:       stu.RollNo,
		QRCode:       stu.QRCode,
		Class:        stu.Class,
		Section:      stu.Section,
		AcademicYear: stu.AcademicYear,
		DateOfBirth:  stu.DateOfBirth,
		Gender:       stu.Gender,
		InterestProfile: interestProfileDoc{
			Subjects:      ip.Subjects,
			Hobbies:       ip.Hobbies,
			CareerGoals:   ip.CareerGoals,
			SkillsToLearn: ip.SkillsToLearn,
			LearningPace:  ip.LearningPace,
			LearningStyle: ip.LearningStyle,
		},
		CreatedAt: stu.CreatedAt.UTC(),
	}
}

func (doc studentDoc) student() student.Student {
	ip := doc.InterestProfile
	return student.Student{
		ID:           doc.ID.Hex(),
		StudentID:    doc.StudentID,
		StudentName:  doc.StudentName,
		RollNo:       doc.RollNo,
		QRCode:       doc.QRCode,
		Class:        doc.Class,
		Section:      doc.Section,
		AcademicYear: doc.AcademicYear,
		DateOfBirth:  doc.DateOfBirth,
		Gender:       doc.Gender,
		InterestProfile: student.InterestProfile{
			Subjects:      ip.Subjects,
			Hobbies:       ip.Hobbies,
			CareerGoals:   ip.CareerGoals,
			SkillsToLearn: ip.SkillsToLearn,
			LearningPace:  ip.LearningPace,
			LearningStyle: ip.LearningStyle,
		},
		CreatedAt: doc.CreatedAt.UTC(),
	}
}

type studentRepository struct {
	coll *mongo.Collection
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *mongo.Database) student.Repository {
	return &studentRepository{coll: db.Collection(studentsCollection)}
}

func (repo studentRepository) find(ctx context.Context, filter bson.D, opts ...*options.FindOptions) ([]student.Student, error) {
	cur, err := repo.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []studentDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	students := make([]student.Student, 0, len(docs))
	for _, doc := range docs {
		students = append(students, doc.student())
	}
	return students, nil
}

func (repo studentRepository) CheckUniqueness(ctx context.Context, studentID, rollNo, qrCode string) error {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "studentId", Value: studentID}},
		bson.D{{Key: "rollNo", Value: rollNo}},
		bson.D{{Key: "qrCode", Value: qrCode}},
	}}}
	var doc studentDoc
	err := repo.coll.FindOne(ctx, filter).Decode(&doc)
	switch {
	case err == mongo.ErrNoDocuments:
		return nil
	case err != nil:
		return core.NewStorageError("checking student uniqueness", err)
	case doc.StudentID == studentID:
		return student.ErrStudentIDExists
	case doc.RollNo == rollNo:
		return student.ErrRollNoExists
	}
	return student.ErrQRCodeExists
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	doc := toStudentDoc(stu)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return student.Student{}, duplicateStudentErr(err)
		}
		return student.Student{}, core.NewStorageError("inserting student", err)
	}
	return doc.student(), nil
}

// unique indexes created by EnsureIndexes
var studentIndexErrs = map[string]error{
	"studentId_unique": student.ErrStudentIDExists,
	"rollNo_unique":    student.ErrRollNoExists,
	"qrCode_unique":    student.ErrQRCodeExists,
}

var dupKeyIndexRe = regexp.MustCompile(`index: (\S+) dup key`)

// duplicateStudentErr maps a duplicate key error to the student.Err*Exists error of its index.
func duplicateStudentErr(err error) error {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, wErr := range we.WriteErrors {
			m := dupKeyIndexRe.FindStringSubmatch(wErr.Message)
			if m == nil {
				continue
			}
			if existsErr, ok := studentIndexErrs[m[1]]; ok {
				return existsErr
			}
		}
	}
	return core.NewStorageError("inserting student", err)
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	query := bson.D{}
	if filter != nil {
		if filter.Search != "" {
			re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
			query = append(query, bson.E{Key: "$or", Value: bson.A{
				bson.D{{Key: "studentName", Value: re}},
				bson.D{{Key: "studentId", Value: re}},
				bson.D{{Key: "rollNo", Value: re}},
				bson.D{{Key: "class", Value: re}},
			}})
		}
		if filter.Class != "" {
			query = append(query, bson.E{Key: "class", Value: filter.Class})
		}
		if filter.Section != "" {
			query = append(query, bson.E{Key: "section", Value: filter.Section})
		}
		if filter.Gender != "" {
			query = append(query, bson.E{Key: "gender", Value: filter.Gender})
		}
	}

	// ObjectIDs grow with insertion time
	sort := bson.D{}
	for _, ord := range ordering {
		dir := -1
		if ord.Ascending {
			dir = 1
		}
		sort = append(sort, bson.E{Key: ord.Field, Value: dir})
	}
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	students, err := repo.find(ctx, query, options.Find().SetSort(sort))
	if err != nil {
		return nil, core.NewStorageError("querying students", err)
	}
	return students, nil
}

func (repo studentRepository) GetStudentsByStudentID(ctx context.Context, ids ...string) ([]student.Student, error) {
	if len(ids) == 0 {
		return []student.Student{}, nil
	}
	filter := bson.D{{Key: "studentId", Value: bson.D{{Key: "$in", Value: ids}}}}
	students, err := repo.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "studentId", Value: 1}}))
	if err != nil {
		return nil, core.NewStorageError("getting students by student ID", err)
	}
	return students, nil
}
