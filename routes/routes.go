package routes

import (
	"trail-pass/controllers/server"
	"trail-pass/controllers/tracking"
	"trail-pass/logger"
	"trail-pass/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)
	trackingController := tracking.NewTrackingController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	app.Get("/health", server.HealthCheck)

	/*=============================================================================
	| Trail tracking routes
	===============================================================================*/
	api := app.Group("/api")

	trackingGroup := api.Group("/trail-tracking").Use(middleware.RequireAuthentication())
	trackingGroup.Post("/", trackingController.UpdateTrack)
	trackingGroup.Get("/ongoing", trackingController.GetOngoingTrack)
}
