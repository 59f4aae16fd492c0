package response

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
// Fields is set when the request was rejected field by field.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Error sends a JSON error response.
// AppErrors carry their own status, ledger rejections become 422 with one
// reason per field, anything else is logged and reported as 500.
func Error(c *gin.Context, err error) {
	var rejections ledger.Rejections
	if errors.As(err, &rejections) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "the submitted values were rejected",
			Fields: rejections.Fields(),
		})
		return
	}

	var rejection *ledger.Rejection
	if errors.As(err, &rejection) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "the submitted values were rejected",
			Fields: map[string]string{rejection.Field: rejection.Reason},
		})
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			logging.FromContext(c).WithError(err).Error(appErr.Message)
		}
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	logging.FromContext(c).WithError(err).Error("unhandled error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// BindError reports a request that failed binding or tag validation.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldName(fe)] = describe(fe)
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Fields: fields})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
}

// fieldName turns the validator namespace (CreateBookingRequest.accommodations[0].guests)
// into the path the client sent (accommodations[0].guests). Segments that
// kept their Go name belong to the root type or to embedded structs.
func fieldName(fe validator.FieldError) string {
	var parts []string
	for _, seg := range strings.Split(fe.Namespace(), ".") {
		if seg == "" || unicode.IsUpper(rune(seg[0])) {
			continue
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return toSnake(fe.Field())
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] != '.' && s[i-1] != '[' {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "money":
		return "must be a positive amount with at most two decimal places"
	case "money_gte0":
		return "must be a non-negative amount with at most two decimal places"
	case "datetime":
		return "must match the format " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
