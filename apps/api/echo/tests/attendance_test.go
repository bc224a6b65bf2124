package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shalini31102/studentApp/core/attendance"
	"github.com/shalini31102/studentApp/tests"
)

type recordBody struct {
	StudentID   string `json:"studentId,omitempty"`
	StudentName string `json:"studentName,omitempty"`
	Date        string `json:"date,omitempty"`
	Status      string `json:"status,omitempty"`
}

func postRecord(t *testing.T, app testApp, body recordBody) attendance.Record {
	req, rec := newRequest(http.MethodPost, "/attendance", marchallObj(t, body))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var got attendance.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	return got
}

func Test_attendanceApi_record(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{name: "invalid json", body: []byte(`[`), wantCode: http.StatusBadRequest},
		{
			name: "required fields", body: []byte(`{}`),
			extra: map[string]string{
				"studentId":   "this field is required",
				"studentName": "this field is required",
				"date":        "this field is required",
				"status":      "this field is required",
			},
		},
		{
			name:  "blank status",
			body:  marchallObj(t, recordBody{StudentID: "S1", StudentName: "Alice", Date: "2024-03-05", Status: "  "}),
			extra: map[string]string{"status": "this field is required"},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/attendance"
		if tt.extra != nil {
			tt.wantCode = http.StatusInternalServerError
			tt.wantData = marchallObj(t, httpErr{Message: "Error submitting attendance"})
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
			if tt.extra != nil {
				assert.Equal(t, tt.extra, app.logs.lastFields())
			}
		})
	}

	t.Run("upsert", func(t *testing.T) {
		first := postRecord(t, app, recordBody{StudentID: "S1", StudentName: "Alice", Date: "2024-03-05", Status: attendance.StatusPresent})
		assert.NotEmpty(t, first.ID)
		assert.Equal(t, attendance.StatusPresent, first.Status)

		second := postRecord(t, app, recordBody{StudentID: "S1", StudentName: "Alicia", Date: "2024-03-05", Status: attendance.StatusAbsent})
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, attendance.StatusAbsent, second.Status)
		assert.Equal(t, "Alice", second.StudentName)

		tt := httpTest{method: http.MethodGet, path: "/attendance?date=2024-03-05", wantCode: http.StatusOK, wantData: marchallList(t, second)}
		req, rec := newRequest(tt.method, tt.path)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_attendanceApi_byDate(t *testing.T) {
	app := setup(t)

	r1 := testutil.RecordAttendance(t, app.store.Attendance, "S1", "Alice", "2024-03-05", attendance.StatusPresent)
	r2 := testutil.RecordAttendance(t, app.store.Attendance, "S2", "Bob", "2024-03-05", attendance.StatusHalfDay)
	testutil.RecordAttendance(t, app.store.Attendance, "S1", "Alice", "2024-03-06", attendance.StatusAbsent)

	tests := []httpTest{
		{name: "date", path: "/attendance?date=2024-03-05", wantData: marchallList(t, r1, r2)},
		{name: "unknown date", path: "/attendance?date=2024-03-07", wantData: marchallList(t)},
		{name: "no date", path: "/attendance", wantData: marchallList(t)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.wantCode = http.StatusOK

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_report(t *testing.T) {
	app := setup(t)

	testutil.CreateStudent(t, app.store.Students, "S1", "Alice", "R1", "10", "A")
	testutil.CreateStudent(t, app.store.Students, "S2", "Bob", "R2", "9", "B")

	for _, r := range []recordBody{
		{StudentID: "S1", StudentName: "Alice", Date: "2024-03-01", Status: attendance.StatusPresent},
		{StudentID: "S1", StudentName: "Alice", Date: "2024-03-02", Status: attendance.StatusAbsent},
		{StudentID: "S1", StudentName: "Alice", Date: "2024-03-03", Status: attendance.StatusHalfDay},
		{StudentID: "S1", StudentName: "Alice", Date: "2024-03-31", Status: attendance.StatusHalfDay},
		{StudentID: "S2", StudentName: "Bob", Date: "2024-02-29", Status: attendance.StatusPresent},
		{StudentID: "S2", StudentName: "Bob", Date: "2024-04-01", Status: attendance.StatusPresent},
		{StudentID: "S9", StudentName: "Ghost", Date: "2024-03-10", Status: attendance.StatusPresent},
	} {
		postRecord(t, app, r)
	}

	march := attendance.ReportRow{StudentID: "S1", Present: 1, Absent: 1, HalfDay: 2, RollNo: "R1", Class: "10", Section: "A"}
	february := attendance.ReportRow{StudentID: "S2", Present: 1, RollNo: "R2", Class: "9", Section: "B"}
	report := func(rows ...attendance.ReportRow) []byte {
		if rows == nil {
			rows = []attendance.ReportRow{}
		}
		return marchallObj(t, map[string]interface{}{"report": rows})
	}

	tests := []httpTest{
		{name: "march", path: "/attendance-report-all-students?month=3&year=2024", wantData: report(march)},
		{name: "leap february", path: "/attendance-report-all-students?month=2&year=2024", wantData: report(february)},
		{name: "empty month", path: "/attendance-report-all-students?month=5&year=2024", wantData: report()},
		{name: "bad month", path: "/attendance-report-all-students?month=13&year=2024", wantData: report()},
		{name: "non numeric", path: "/attendance-report-all-students?month=march&year=2024", wantData: report()},
		{name: "missing params", path: "/attendance-report-all-students", wantData: report()},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.wantCode = http.StatusOK

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.server.ServeHTTP(rec, req)
			checkOrderedData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_exportReport(t *testing.T) {
	app := setup(t)

	testutil.CreateStudent(t, app.store.Students, "S1", "Alice", "R1", "10", "A")
	postRecord(t, app, recordBody{StudentID: "S1", StudentName: "Alice", Date: "2024-03-01", Status: attendance.StatusPresent})

	req, rec := newRequest(http.MethodGet, "/attendance-report-all-students/export?month=3&year=2024")
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_report_2024-03.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Attendance 2024-03")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Student ID", "Roll No", "Class", "Section", "Present", "Absent", "Half Day"},
		{"S1", "R1", "10", "A", "1", "0", "0"},
	}, rows)
}

func Test_attendanceApi_exportReportInvalidPeriod(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/attendance-report-all-students/export?month=3&year=123456789012345")
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_report.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Student ID", "Roll No", "Class", "Section", "Present", "Absent", "Half Day"},
	}, rows)
}

func Test_attendanceApi_serverErrors(t *testing.T) {
	server := setupBroken(t)

	tests := []httpTest{
		{
			name: "record", method: http.MethodPost, path: "/attendance",
			body:     marchallObj(t, recordBody{StudentID: "S1", StudentName: "Alice", Date: "2024-03-05", Status: attendance.StatusPresent}),
			wantData: marchallObj(t, httpErr{Message: "Error submitting attendance"}),
		},
		{name: "by date", method: http.MethodGet, path: "/attendance?date=2024-03-05", wantData: marchallObj(t, httpErr{Message: "Error fetching attendance data"})},
		{name: "report", method: http.MethodGet, path: "/attendance-report-all-students?month=3&year=2024", wantData: marchallObj(t, httpErr{Message: "Error generating the report"})},
		{name: "export", method: http.MethodGet, path: "/attendance-report-all-students/export?month=3&year=2024", wantData: marchallObj(t, httpErr{Message: "Error generating the report"})},
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

func Test_home(t *testing.T) {
	app := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome")
}
