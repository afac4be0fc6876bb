package server

import (
	"net/http"

	"ush/internal/errors"
	"ush/internal/logger"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the custom error handler for the server. UshError codes
// map to their HTTP status; everything else is a 500.
func ErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	switch e := err.(type) {
	case *errors.UshError:
		code = e.GetHTTPStatus()
		message = e.Error()
	case *echo.HTTPError:
		code = e.Code
		if msg, ok := e.Message.(string); ok {
			message = msg
		}
	}

	logger.GetLogger(c).WithError(err).WithField("status", code).Error("Request failed")

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			c.NoContent(code)
		} else {
			c.JSON(code, ErrorResponse{Error: message})
		}
	}
}

// handleError converts operation errors to echo HTTP errors
func handleError(err error) error {
	if ue, ok := err.(*errors.UshError); ok {
		return echo.NewHTTPError(ue.GetHTTPStatus(), ue.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
