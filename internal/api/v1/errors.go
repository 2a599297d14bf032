package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"companymap/internal/pipeline"
	"companymap/internal/service/records"
	"companymap/internal/service/workbook"
)

// statusOf 错误类型到 HTTP 状态码
func statusOf(err error) int {
	var (
		malformed  *pipeline.MalformedSourceError
		empty      *pipeline.EmptyResultError
		notFound   *records.RecordNotFoundError
		validation *records.ValidationError
		persist    *records.PersistenceError
	)
	switch {
	case errors.As(err, &malformed), errors.As(err, &empty):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFound), errors.Is(err, workbook.ErrWorkbookMissing):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &persist):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}
