package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"capibara-storefront/internal/apiclient"
	"capibara-storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, err error) {
	status, msg := errorStatus(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

func errorStatus(err error) (int, string) {
	var apiErr *apiclient.Error
	hasAPIErr := errors.As(err, &apiErr)
	upstream := func(def string) string {
		if hasAPIErr && apiErr.Message != "" {
			return apiErr.Message
		}
		return def
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, upstream("authentication required")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apiclient.ErrUnreachable):
		return http.StatusBadGateway, apiclient.ErrUnreachable.Error()
	case hasAPIErr && apiErr.Status < http.StatusInternalServerError:
		return apiErr.Status, upstream(http.StatusText(apiErr.Status))
	case hasAPIErr:
		return http.StatusBadGateway, "upstream error"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}
