package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stylemetry/engine/internal/server/middleware"
	"github.com/stylemetry/engine/pkg/logger"
	"github.com/stylemetry/engine/pkg/store"
)

// CreateComparisonHandler compares two stored profiles and persists the
// resulting comparison record. The profiles themselves are never modified.
func CreateComparisonHandler(c echo.Context) error {
	type createComparisonBody struct {
		ProfileA string `json:"profile_a" validate:"required"`
		ProfileB string `json:"profile_b" validate:"required"`
	}

	data := new(createComparisonBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	a, err := app.Storage.GetProfile(ctx, data.ProfileA)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Profile not found", "profile_id": data.ProfileA})
	}
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	b, err := app.Storage.GetProfile(ctx, data.ProfileB)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Profile not found", "profile_id": data.ProfileB})
	}
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	cmp := app.Pipeline.Compare(a, b)
	if err := app.Storage.SaveComparison(ctx, &cmp); err != nil {
		logger.Warn("Failed to save comparison", "profile_a", cmp.ProfileA, "profile_b", cmp.ProfileB, "err", err)
	}

	return c.JSON(http.StatusOK, cmp)
}
