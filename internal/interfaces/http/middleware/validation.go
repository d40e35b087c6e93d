package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/solepos/backend/internal/domain/catalog"
	"github.com/solepos/backend/internal/interfaces/http/dto"
)

var setupOnce sync.Once

// SetupValidator reports JSON field names in errors and registers the shoe_size tag.
// Safe to call more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		_ = v.RegisterValidation("shoe_size", validateShoeSize)
	})
}

func validateShoeSize(fl validator.FieldLevel) bool {
	_, err := catalog.NormalizeSize(fl.Field().String())
	return err == nil
}

// FormatValidationErrors turns binding errors into a 400 envelope with one
// detail per failing field
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details = make([]dto.ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

func HandleValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

var fixedMessages = map[string]string{
	"required":  "This field is required",
	"shoe_size": "Invalid shoe size",
	"uuid":      "Invalid UUID format",
	"numeric":   "Must be numeric",
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "min", "max":
		bound := "at least "
		if fe.Tag() == "max" {
			bound = "at most "
		}
		switch fe.Kind() {
		case reflect.String:
			return "Must be " + bound + fe.Param() + " characters"
		case reflect.Slice:
			return "Must contain " + bound + fe.Param() + " entries"
		}
		return "Must be " + bound + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "datetime":
		return "Must be a date in the form " + fe.Param()
	}
	return "Invalid value"
}
