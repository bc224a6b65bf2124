package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shalini31102/studentApp/core/student"
)

// failure messages
const (
	msgAddStudentFailed  = "Failed to add a student"
	msgGetStudentsFailed = "Failed to retrieve the students"
	msgStudentSaved      = "Student saved successfully"
)

type studentApi struct {
	svc      student.Service
	validate *validator.Validate
}

type StudentCreatedResponse struct {
	Message string          `json:"message"`
	Student student.Student `json:"student"`
}

func registerStudentAPI(e *echo.Echo, svc student.Service, validate *validator.Validate) {
	api := studentApi{
		svc:      svc,
		validate: validate,
	}

	e.POST("/addStudent", api.create)
	e.GET("/students", api.query)
	e.GET("/students/filters", api.filters)
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return failedAny(err, msgAddStudentFailed)
	}

	stu, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return failedAny(errors.Wrap(err, "creating student"), msgAddStudentFailed)
	}
	return ctx.JSON(http.StatusCreated, StudentCreatedResponse{Message: msgStudentSaved, Student: stu})
}

func (api *studentApi) query(ctx echo.Context) error {
	var filter student.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	var ord Ordering
	ord.Bind(ctx)

	students, err := api.svc.Query(ctx.Request().Context(), &filter, ord.Orderings)
	if err != nil {
		return failed(errors.Wrap(err, "querying students"), msgGetStudentsFailed)
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) filters(ctx echo.Context) error {
	filters, err := api.svc.Filters(ctx.Request().Context())
	if err != nil {
		return failed(errors.Wrap(err, "getting student filters"), msgGetStudentsFailed)
	}
	return ctx.JSON(http.StatusOK, filters)
}
