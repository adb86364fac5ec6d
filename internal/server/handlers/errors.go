package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// RequestIDKey is the header and context key carrying the request id.
const RequestIDKey = "X-Request-ID"

// SetupValidator makes binding errors name fields by their JSON tag.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type errorResponse struct {
	Error     string       `json:"error"`
	Field     string       `json:"field,omitempty"`
	Fields    []fieldError `json:"fields,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

// writeError maps domain errors to HTTP statuses. Anything unrecognized is
// logged and reported as an internal error without details.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validation *models.ValidationError
		notFound   *models.NotFoundError
		conflict   *models.ConflictError
	)
	requestID := c.GetString(RequestIDKey)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: validation.Error(), Field: validation.Field, RequestID: requestID})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: notFound.Error(), RequestID: requestID})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, errorResponse{Error: conflict.Error(), RequestID: requestID})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", requestID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error", RequestID: requestID})
	}
}

// writeBindError reports a request body that failed to decode or validate.
func writeBindError(c *gin.Context, logger *zap.Logger, err error) {
	resp := errorResponse{Error: "invalid request body", RequestID: c.GetString(RequestIDKey)}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Fields = append(resp.Fields, fieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
	} else {
		logger.Warn("undecodable request body", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(http.StatusBadRequest, resp)
}
