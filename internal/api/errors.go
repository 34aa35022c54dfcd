package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"study-tracker/internal/service"
)

// errorBody is the shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// respondError maps service error classes onto status codes. Anything
// unclassified is logged and reported as a bare 500.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(status, errorBody{Error: "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, errorBody{Error: clientMessage(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage drops the "<class>: " prefix the service helpers add.
func clientMessage(err error) string {
	msg := err.Error()
	for _, class := range []error{service.ErrValidation, service.ErrNotFound, service.ErrConflict, service.ErrUnauthorized} {
		if prefix := class.Error() + ": "; strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

// bindError turns a gin binding failure into a validation error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, describeField(fe))
		}
		return fmt.Errorf("%w: %s", service.ErrValidation, strings.Join(parts, "; "))
	}
	return fmt.Errorf("%w: malformed request: %s", service.ErrValidation, err.Error())
}

func describeField(fe validator.FieldError) string {
	name := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "area":
		return name + " must be study or football"
	case "intensity":
		return name + " must be low, medium or high"
	case "email":
		return name + " must be a valid email"
	case "hexcolor":
		return name + " must be a hex color"
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", name, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", service.ErrValidation, msg)
}
