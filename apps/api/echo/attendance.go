package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shalini31102/studentApp/core/attendance"
	"github.com/shalini31102/studentApp/services/export"
)

// failure messages
const (
	msgSubmitAttendanceFailed = "Error submitting attendance"
	msgFetchAttendanceFailed  = "Error fetching attendance data"
	msgReportFailed           = "Error generating the report"
)

type attendanceApi struct {
	svc      attendance.Service
	validate *validator.Validate
}

type ReportResponse struct {
	Report []attendance.ReportRow `json:"report"`
}

func registerAttendanceAPI(e *echo.Echo, svc attendance.Service, validate *validator.Validate) {
	api := attendanceApi{
		svc:      svc,
		validate: validate,
	}

	e.POST("/attendance", api.record)
	e.GET("/attendance", api.byDate)
	e.GET("/attendance-report-all-students", api.report)
	e.GET("/attendance-report-all-students/export", api.exportReport)
}

// Handlers

func (api *attendanceApi) record(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate); err != nil {
		return failedAny(err, msgSubmitAttendanceFailed)
	}

	rec, err := api.svc.Record(ctx.Request().Context(), data)
	if err != nil {
		return failedAny(errors.Wrap(err, "recording attendance"), msgSubmitAttendanceFailed)
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) byDate(ctx echo.Context) error {
	records, err := api.svc.ByDate(ctx.Request().Context(), ctx.QueryParam("date"))
	if err != nil {
		return failed(errors.Wrap(err, "finding attendance by date"), msgFetchAttendanceFailed)
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) report(ctx echo.Context) error {
	var period ReportPeriod
	period.Bind(ctx)

	rows, err := api.svc.MonthlyReport(ctx.Request().Context(), period.Month, period.Year)
	if err != nil {
		return failed(errors.Wrap(err, "generating monthly report"), msgReportFailed)
	}
	return ctx.JSON(http.StatusOK, ReportResponse{Report: rows})
}

func (api *attendanceApi) exportReport(ctx echo.Context) error {
	var period ReportPeriod
	period.Bind(ctx)

	rows, err := api.svc.MonthlyReport(ctx.Request().Context(), period.Month, period.Year)
	if err != nil {
		return failed(errors.Wrap(err, "generating monthly report"), msgReportFailed)
	}

	var buf bytes.Buffer
	if err = exportsvc.WriteMonthlyReport(&buf, period.Month, period.Year, rows); err != nil {
		return failed(errors.Wrap(err, "writing report workbook"), msgReportFailed)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", exportsvc.FileName(period.Month, period.Year)))
	return ctx.Blob(http.StatusOK, exportsvc.ContentType, buf.Bytes())
}
