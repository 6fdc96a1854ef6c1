package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/portal-api/pkg/errors"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Message: message}
}

// RespondError writes the HTTP representation of a service error. Unknown
// error values are logged and reported as a plain 500 without detail.
func RespondError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		if appErr.StatusCode() >= http.StatusInternalServerError {
			log.Error().Err(appErr.Err).Str("path", c.Request.URL.Path).Msg("request failed")
		}
		c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
}
