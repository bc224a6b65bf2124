package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shalini31102/studentApp/core"
)

// opError carries the message shown to clients when an operation fails unexpectedly.
type opError struct {
	msg     string
	err     error
	invalid bool // validation errors are reported as failures too
}

func (e *opError) Error() string { return e.msg + ": " + e.err.Error() }

func (e *opError) Cause() error { return e.err }

func (e *opError) Unwrap() error { return e.err }

// failed wraps err so that a server error reports msg; client errors pass through untouched.
func failed(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &opError{msg: msg, err: err}
}

// failedAny is like failed, but validation errors also report msg with a server error status.
// Their field errors are only logged.
func failedAny(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &opError{msg: msg, err: err, invalid: true}
}

func validationFields(err error, translator ut.Translator) interface{} {
	switch origErr := err.(type) {
	case validator.ValidationErrors:
		fldErrs := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			fldErrs[vErr.Field()] = vErr.Translate(translator)
		}
		return fldErrs
	case *core.ValidationError:
		if origErr.Fields == nil {
			return origErr.Error()
		}
		fldErrs := make(map[string]string, len(origErr.Fields))
		for _, fErr := range origErr.Fields {
			fldErrs[fErr.Field] = fErr.Error
		}
		return fldErrs
	}
	return err.Error()
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors, *core.ValidationError:
			code = http.StatusBadRequest
			message = validationFields(origErr, translator)

			var opErr *opError
			if errors.As(err, &opErr) && opErr.invalid {
				logger.Warn(opErr.msg, err, map[string]interface{}{
					"method": ctx.Request().Method,
					"path":   ctx.Request().URL.Path,
					"fields": message,
				})
				code = http.StatusInternalServerError
				message = opErr.msg
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			var opErr *opError
			if errors.As(err, &opErr) {
				msg = opErr.msg
			}
			message = msg

			logger.Error(msg, err, map[string]interface{}{
				"method": ctx.Request().Method,
				"path":   ctx.Request().URL.Path,
			})

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = echo.Map{"message": message, "debug": err.Error()}
		} else if m, ok := message.(string); ok {
			message = echo.Map{"message": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
