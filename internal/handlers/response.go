package handlers

import (
	"errors"
	"fmt"
	"strings"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/middleware"
	"ecobloom/internal/models"
	"ecobloom/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// fieldErrors is returned when a request body fails struct validation.
type fieldErrors map[string]string

func (f fieldErrors) Error() string { return "Validation failed" }

// ErrorHandler renders every error returned by a route as {success:false, message}.
func ErrorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
		}
		var fields fieldErrors
		if errors.As(err, &fields) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Validation failed",
				"errors":  fields,
			})
		}

		kind := apperrors.KindOf(err)
		if kind == apperrors.KindUnexpected {
			log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(apperrors.HTTPStatus(kind)).JSON(fiber.Map{
			"success": false,
			"message": apperrors.PublicMessage(err, "Internal server error"),
		})
	}
}

// bind parses the request body into dst and validates its struct tags.
func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return apperrors.Validation("Invalid request body")
		}
		fields := make(fieldErrors, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return fields
	}
	return nil
}

// principal returns the caller stored by the auth middleware.
func principal(c *fiber.Ctx) (models.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return models.Principal{}, apperrors.Unauthenticated("Unauthorized")
	}
	return p, nil
}

func pagination(c *fiber.Ctx, def, max int) services.Pagination {
	return services.ParsePagination(c.Query("page"), c.Query("limit"), def, max)
}

// optionalBool reads "true" or "false"; anything else is nil.
func optionalBool(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
