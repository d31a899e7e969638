package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSONResponse writes data with the given HTTP status. The intelligence
// surface relies on raw status codes (200/202/503/...) rather than an
// envelope, so the status goes on the wire, not in the body.
func JSONResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

// SuccessResponse writes a 200 response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return JSONResponse(c, http.StatusOK, data)
}

// MessageStatusResponse writes a status with a plain message body.
func MessageStatusResponse(c echo.Context, statusCode int, message string) error {
	return JSONResponse(c, statusCode, MessageResponse{Message: message})
}

// BadRequestResponse writes validation errors with a 400 status.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return JSONResponse(c, http.StatusBadRequest, data)
}

// AppErrorResponse writes an application error with its own status.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return JSONResponse(c, appErr.Status, appErr)
	}
	return MessageStatusResponse(c, http.StatusInternalServerError, "Internal Server Error")
}

// errorHandler is the echo error handler: routes every unhandled error
// through the AppError shape so 404s, panics and handler errors share one
// body format.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		switch he.Code {
		case http.StatusNotFound:
			err = NotFoundError(msg)
		case http.StatusBadRequest:
			err = BadRequestError(msg)
		default:
			err = NewAppError("ERR_HTTP", msg, he.Code)
		}
	}
	_ = AppErrorResponse(c, err)
}
