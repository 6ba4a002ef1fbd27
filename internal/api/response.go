package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lalith-99/propman/internal/middleware"
	"github.com/lalith-99/propman/internal/service"
	"go.uber.org/zap"
)

// envelope is the body of every successful response.
type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// errorBody is the body of every failed response. Errors maps input field
// names to messages and is present only for validation failures.
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, envelope{Message: message, Data: data})
}

func respondValidation(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, errorBody{Message: "validation failed", Errors: fields})
}

// respondError maps a service error onto a status code. Anything it does
// not recognize is logged and reported as a 500 without detail.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(c, verr.Fields)
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorBody{Message: "invalid email or password"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, errorBody{Message: "invalid or expired refresh token"})
	case errors.Is(err, service.ErrNotManager):
		c.JSON(http.StatusForbidden, errorBody{Message: "only property managers can access this resource"})
	case errors.Is(err, service.ErrJobNotFound):
		c.JSON(http.StatusNotFound, errorBody{Message: "job not found"})
	case errors.Is(err, service.ErrJobNumberExhausted):
		middleware.GetLogger(c, logger).Error("job number allocation failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, errorBody{Message: "could not allocate a job number, try again later"})
	default:
		_ = c.Error(err)
		middleware.GetLogger(c, logger).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, errorBody{Message: "internal server error"})
	}
}

// respondBindError turns a ShouldBindJSON failure into a 400. Tag
// violations are reported per field using the JSON field names.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	respondValidation(c, fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "a valid email is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their JSON names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}
