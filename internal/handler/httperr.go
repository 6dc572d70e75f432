package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rentalhub/internal/service"
	"rentalhub/pkg/response"
)

// statusFor maps the service error taxonomy onto HTTP statuses:
// validation → 400, oversell and state conflicts → 409, permission → 403,
// missing rows → 404, everything else → 500.
func statusFor(err error) int {
	var ve *service.ValidationError
	var oe *service.OversellError
	var se *service.StateError
	var pe *service.PermissionError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &oe), errors.As(err, &se):
		return http.StatusConflict
	case errors.As(err, &pe):
		return http.StatusForbidden
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, response.Error(status, err.Error()))
}
