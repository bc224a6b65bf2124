package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shalini31102/studentApp/core/student"
	"github.com/shalini31102/studentApp/tests"
)

func newStudentBody(t *testing.T, studentID, rollNo, qrCode string, mutate ...func(data map[string]interface{})) []byte {
	data := map[string]interface{}{
		"studentId":   studentID,
		"studentName": "Student " + studentID,
		"rollNo":      rollNo,
		"qrCode":      qrCode,
		"class":       "10",
		"dateOfBirth": "2010-05-01",
		"gender":      student.GenderFemale,
		"interestProfile": map[string]interface{}{
			"subjects":     []string{"Maths", " Physics "},
			"learningPace": "FAST",
		},
	}
	for _, m := range mutate {
		m(data)
	}
	return marchallObj(t, data)
}

func Test_studentApi_create(t *testing.T) {
	app := setup(t)
	testutil.CreateStudent(t, app.store.Students, "TAKEN", "Taken", "R-TAKEN", "10", "A")

	tests := []httpTest{
		{name: "invalid json", body: []byte(`{"studentId": `), wantCode: http.StatusBadRequest},
		{
			name: "required fields", body: []byte(`{}`),
			extra: map[string]string{
				"studentId":   "this field is required",
				"studentName": "this field is required",
				"rollNo":      "this field is required",
				"qrCode":      "this field is required",
				"class":       "this field is required",
				"dateOfBirth": "this field is required",
				"gender":      "this field is required",
			},
		},
		{
			name: "blank fields", body: newStudentBody(t, "   ", "R1", "QR1"),
			extra: map[string]string{"studentId": "this field is required"},
		},
		{
			name: "invalid enums",
			body: newStudentBody(t, "S1", "R1", "QR1", func(data map[string]interface{}) {
				data["gender"] = "robot"
				data["academicYear"] = "2024-2026"
			}),
			extra: map[string]string{
				"gender":       "gender must be one of [Male Female Other]",
				"academicYear": "academic year must look like 2024-2025",
			},
		},
		{
			name: "duplicate studentId", body: newStudentBody(t, "TAKEN", "R1", "QR1"),
			extra: map[string]string{"studentId": student.ErrStudentIDExists.Error()},
		},
		{
			name: "duplicate rollNo", body: newStudentBody(t, "S1", "R-TAKEN", "QR1"),
			extra: map[string]string{"rollNo": student.ErrRollNoExists.Error()},
		},
		{
			name: "duplicate qrCode", body: newStudentBody(t, "S1", "R1", "QR-TAKEN"),
			extra: map[string]string{"qrCode": student.ErrQRCodeExists.Error()},
		},
		{name: "created", body: newStudentBody(t, " S1 ", "R1", "QR1"), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/addStudent"
		if tt.extra != nil {
			tt.wantCode = http.StatusInternalServerError
			tt.wantData = marchallObj(t, httpErr{Message: "Failed to add a student"})
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var resp struct {
					Message string          `json:"message"`
					Student student.Student `json:"student"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				assert.Equal(t, "Student saved successfully", resp.Message)
				assert.NotEmpty(t, resp.Student.ID)
				assert.Equal(t, "S1", resp.Student.StudentID)
				assert.Equal(t, student.DefaultSection, resp.Student.Section)
				assert.Equal(t, fmt.Sprintf("%d-%d", time.Now().Year(), time.Now().Year()+1), resp.Student.AcademicYear)
				assert.Equal(t, []string{"Maths", "Physics"}, resp.Student.InterestProfile.Subjects)
				assert.Equal(t, "fast", resp.Student.InterestProfile.LearningPace)
				assert.Equal(t, student.DefaultLearningStyle, resp.Student.InterestProfile.LearningStyle)
				return
			}
			checkCodeAndData(t, tt, rec)
			if tt.extra != nil {
				assert.Equal(t, tt.extra, app.logs.lastFields())
			}
		})
	}
}

func Test_studentApi_query(t *testing.T) {
	app := setup(t)

	now := time.Now()
	alice := testutil.CreateStudent(t, app.store.Students, "S1", "Alice", "R1", "10", "A", now.Add(-3*time.Hour))
	bob := testutil.CreateStudent(t, app.store.Students, "S2", "Bob", "R2", "9", "B", now.Add(-2*time.Hour))
	carol := testutil.CreateStudent(t, app.store.Students, "S3", "Carol", "R3", "10", "B", now.Add(-time.Hour))

	path := func(search, class, section, gender, ordering string) string {
		q := make(url.Values)
		for k, v := range map[string]string{"search": search, "class": class, "section": section, "gender": gender, "ordering": ordering} {
			if v != "" {
				q.Set(k, v)
			}
		}
		if len(q) == 0 {
			return "/students"
		}
		return "/students?" + q.Encode()
	}
	empty := marchallList(t)

	tests := []httpTest{
		{name: "Get all", path: path("", "", "", "", ""), wantData: marchallList(t, alice, bob, carol)},
		{name: "trailing slash", path: "/students/", wantData: marchallList(t, alice, bob, carol)},
		{name: "search (unknown)", path: path("lol", "", "", "", ""), wantData: empty},
		{name: "search=aLi", path: path("aLi", "", "", "", ""), wantData: marchallList(t, alice)},
		{name: "search=r2", path: path("r2", "", "", "", ""), wantData: marchallList(t, bob)},
		{name: "class=10", path: path("", "10", "", "", ""), wantData: marchallList(t, alice, carol)},
		{name: "class=All", path: path("", "All", "", "", ""), wantData: marchallList(t, alice, bob, carol)},
		{name: "section=b", path: path("", "", "b", "", ""), wantData: marchallList(t, bob, carol)},
		{name: "gender=Male", path: path("", "", "", student.GenderMale, ""), wantData: empty},
		{name: "class=10&section=B", path: path("", "10", "B", "", ""), wantData: marchallList(t, carol)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	ordered := []httpTest{
		{name: "order by -studentName", path: path("", "", "", "", "-studentName"), wantData: marchallList(t, carol, bob, alice)},
		{name: "order by section,-createdAt", path: path("", "", "", "", "section,-createdAt"), wantData: marchallList(t, alice, carol, bob)},
		{name: "filtering & ordering", path: path("", "10", "", "", "-rollNo"), wantData: marchallList(t, carol, alice)},
	}
	for _, tt := range ordered {
		tt.method = http.MethodGet
		tt.wantCode = http.StatusOK

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkOrderedData(t, tt, rec)
		})
	}
}

func Test_studentApi_filters(t *testing.T) {
	app := setup(t)
	testutil.CreateStudent(t, app.store.Students, "S1", "Alice", "R1", "10", "B")
	testutil.CreateStudent(t, app.store.Students, "S2", "Bob", "R2", "9", "A")

	tt := httpTest{
		method:   http.MethodGet,
		path:     "/students/filters",
		wantCode: http.StatusOK,
		wantData: marchallObj(t, student.Filters{
			Classes:  []string{"10", "9"},
			Sections: []string{"A", "B"},
			Genders:  []string{student.GenderFemale},
		}),
	}
	req, rec := newRequest(tt.method, tt.path)
	app.server.ServeHTTP(rec, req)
	checkOrderedData(t, tt, rec)
}

func Test_studentApi_serverErrors(t *testing.T) {
	server := setupBroken(t)

	tests := []httpTest{
		{
			name: "add student", method: http.MethodPost, path: "/addStudent", body: newStudentBody(t, "S1", "R1", "QR1"),
			wantData: marchallObj(t, httpErr{Message: "Failed to add a student"}),
		},
		{name: "students", method: http.MethodGet, path: "/students", wantData: marchallObj(t, httpErr{Message: "Failed to retrieve the students"})},
		{name: "filters", method: http.MethodGet, path: "/students/filters", wantData: marchallObj(t, httpErr{Message: "Failed to retrieve the students"})},
	}
	for _, tt := range tests {
		tt.wantCode = http.StatusInternalServerError

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
