package exportsvc

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/shalini31102/studentApp/core/attendance"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var reportHeaders = []interface{}{"Student ID", "Roll No", "Class", "Section", "Present", "Absent", "Half Day"}

// DefaultSheetName names the sheet of a report whose period is not a valid month.
const DefaultSheetName = "Attendance"

func SheetName(month, year int) string {
	if _, _, ok := attendance.MonthRange(month, year); !ok {
		return DefaultSheetName
	}
	return "Attendance " + attendance.MonthKey(month, year)
}

func FileName(month, year int) string {
	if _, _, ok := attendance.MonthRange(month, year); !ok {
		return "attendance_report.xlsx"
	}
	return fmt.Sprintf("attendance_report_%s.xlsx", attendance.MonthKey(month, year))
}

// WriteMonthlyReport writes the report as a single-sheet workbook.
func WriteMonthlyReport(w io.Writer, month, year int, rows []attendance.ReportRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := SheetName(month, year)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return errors.Wrap(err, "creating sheet")
	}
	f.SetActiveSheet(index)
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "deleting default sheet")
	}

	if err = f.SetSheetRow(sheet, "A1", &reportHeaders); err != nil {
		return errors.Wrap(err, "writing headers")
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "computing cell name")
		}
		values := []interface{}{row.StudentID, row.RollNo, row.Class, row.Section, row.Present, row.Absent, row.HalfDay}
		if err = f.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.Wrapf(err, "writing row %d", i+1)
		}
	}
	if err = f.SetColWidth(sheet, "A", "D", 14); err != nil {
		return errors.Wrap(err, "sizing columns")
	}

	if err = f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}
