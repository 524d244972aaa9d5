package server

import (
	"github.com/labstack/echo/v4"

	"github.com/stylemetry/engine/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Analysis routes
	apiRoutes.POST("/analyses", routes.CreateAnalysisHandler)
	apiRoutes.POST("/analyses/batch", routes.CreateAnalysisBatchHandler)

	// Profile routes
	apiRoutes.GET("/profiles", routes.GetProfilesHandler)
	apiRoutes.GET("/profiles/:id", routes.GetProfileHandler)
	apiRoutes.GET("/profiles/:id/similar", routes.GetSimilarProfilesHandler)
	apiRoutes.DELETE("/profiles/:id", routes.DeleteProfileHandler)

	// Comparison routes
	apiRoutes.POST("/comparisons", routes.CreateComparisonHandler)
}
