package v1

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	serviceerrors "github.com/hrygo/toeicplanner/server/internal/errors"
	"github.com/hrygo/toeicplanner/server/internal/observability"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleError writes err as an ErrorResponse with the status of its code.
// Errors without a code are reported as INTERNAL without their details.
func (s *APIV1Service) handleError(c echo.Context, err error) error {
	code := serviceerrors.GetCodeFromError(err, serviceerrors.ErrCodeInternal)
	message := "internal error"
	var serviceErr *serviceerrors.ServiceError
	if errors.As(err, &serviceErr) && code != serviceerrors.ErrCodeInternal {
		message = serviceErr.Message
	}

	if code == serviceerrors.ErrCodeInternal {
		if reqCtx, ok := observability.FromContext(c.Request().Context()); ok {
			reqCtx.Error("request failed", err)
		} else {
			slog.Error("request failed", slog.String("error", err.Error()))
		}
	}
	return c.JSON(code.HTTPStatus(), ErrorResponse{Code: string(code), Message: message})
}

// bind decodes the request body into req and validates its tags.
func (s *APIV1Service) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return serviceerrors.InvalidArgument("malformed request body")
	}
	if err := s.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				fields = append(fields, describeFieldError(fieldErr))
			}
			return serviceerrors.InvalidArgument("%s", strings.Join(fields, "; "))
		}
		return serviceerrors.InvalidArgument("invalid request: %v", err)
	}
	return nil
}

func describeFieldError(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fieldErr.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	default:
		return fmt.Sprintf("%s failed %s", field, fieldErr.Tag())
	}
}
