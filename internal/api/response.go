package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/vanier-courses/internal/apperr"
)

// OKResponse is the success envelope.
type OKResponse struct {
	Code int         `json:"code"`
	Data interface{} `json:"data"`
}

// ErrResponse is the failure envelope.
type ErrResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OK writes data with status 200.
func OK(c *gin.Context, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, OKResponse{Code: http.StatusOK, Data: data})
}

// Fail writes err with the status its kind maps to. Internal failures get a
// fixed message; upstream detail stays in the logs.
func Fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	_ = c.Error(err)

	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(status, ErrResponse{Code: status, Message: publicMessage(err, status)})
}

func publicMessage(err error, status int) string {
	if status == http.StatusBadRequest {
		var e *apperr.Error
		if errors.As(err, &e) && e.Message != "" {
			return e.Message
		}
		return "Invalid request"
	}

	switch apperr.KindOf(err) {
	case apperr.KindFetch:
		return "Failed to reach the schedule"
	case apperr.KindExecution:
		return "Failed to pass the site's bot check"
	case apperr.KindParse:
		return "Failed to read the schedule"
	default:
		return "Internal server error"
	}
}
