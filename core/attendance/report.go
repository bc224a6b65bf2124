package attendance

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shalini31102/studentApp/core/student"
)

const dateLayout = "2006-01-02"

// MonthRange returns the first and last dates of the month as YYYY-MM-DD strings.
// ok is false when month is outside 1..12 or year outside 1..9999.
func MonthRange(month, year int) (start, end string, ok bool) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return "", "", false
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(dateLayout), last.Format(dateLayout), true
}

// MonthOf extracts the month and year from a date starting with YYYY-MM.
func MonthOf(date string) (month, year int, ok bool) {
	if len(date) < 7 || date[4] != '-' {
		return 0, 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, 0, false
	}
	month, err = strconv.Atoi(date[5:7])
	if err != nil {
		return 0, 0, false
	}
	if _, _, ok := MonthRange(month, year); !ok {
		return 0, 0, false
	}
	return month, year, true
}

// MonthKey formats a month as YYYY-MM.
func MonthKey(month, year int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

type tally struct {
	present, absent, halfDay int
}

// tallyRecords groups records by student and counts the known statuses.
func tallyRecords(records []Record) map[string]*tally {
	groups := make(map[string]*tally)
	for _, rec := range records {
		t, ok := groups[rec.StudentID]
		if !ok {
			t = &tally{}
			groups[rec.StudentID] = t
		}
		switch rec.Status {
		case StatusPresent:
			t.present++
		case StatusAbsent:
			t.absent++
		case StatusHalfDay:
			t.halfDay++
		}
	}
	return groups
}

// joinRoster keeps only the groups with a roster entry, ordered by student ID.
func joinRoster(groups map[string]*tally, roster []student.Student) []ReportRow {
	rows := make([]ReportRow, 0, len(groups))
	seen := make(map[string]bool, len(roster))
	for _, stu := range roster {
		t, ok := groups[stu.StudentID]
		if !ok || seen[stu.StudentID] {
			continue
		}
		seen[stu.StudentID] = true
		rows = append(rows, ReportRow{
			StudentID: stu.StudentID,
			Present:   t.present,
			Absent:    t.absent,
			HalfDay:   t.halfDay,
			RollNo:    stu.RollNo,
			Class:     stu.Class,
			Section:   stu.Section,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StudentID < rows[j].StudentID })
	return rows
}

func studentIDs(groups map[string]*tally) []string {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
