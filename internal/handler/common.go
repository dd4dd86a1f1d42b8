package handler

import (
	"errors"
	"net/http"
	"strconv"

	"marketplace-api/internal/apperr"
	"marketplace-api/internal/service"
	"marketplace-api/internal/storage"
	"marketplace-api/pkg/config"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	validate = validator.New()

	policy     service.Policy
	imageStore storage.Storage
	appConfig  *config.Config
)

// Init wires the handler package's collaborators at startup
func Init(cfg *config.Config, store storage.Storage) {
	appConfig = cfg
	imageStore = store
	policy = service.NewPolicy(cfg.Policy.OpenSpaceCreation)
}

// validationErrors maps a validator error to a field -> message body
func validationErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = "failed on the '" + fe.Tag() + "' rule"
		}
	} else {
		fields["_"] = err.Error()
	}
	return fields
}

// respondValidation writes the 422 field->message shape
func respondValidation(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": validationErrors(err)})
}

// respondError maps the error taxonomy to HTTP statuses. Forbidden stays
// distinct from not-found; domain errors carry their own message.
func respondError(c echo.Context, err error, notFoundMessage string) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFoundMessage})
	case errors.Is(err, apperr.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "This action is unauthorized"})
	case errors.Is(err, apperr.ErrGalleryFull):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "The product gallery is full"})
	default:
		if de, ok := apperr.IsDomain(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": de.Message})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
}

// paramID parses a numeric path parameter
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
