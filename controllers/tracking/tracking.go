package tracking

import (
	"trail-pass/logger"
	trackingService "trail-pass/services/tracking"
	"trail-pass/types"
	trackingTypes "trail-pass/types/tracking"
	"trail-pass/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TrackingController handles trail-progress HTTP requests
type TrackingController struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Service *trackingService.Service
}

// NewTrackingController creates a new tracking controller
func NewTrackingController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *TrackingController {
	return &TrackingController{
		DB:      db,
		Logger:  asyncLogger,
		Service: trackingService.NewService(trackingService.NewGormStore(db), trackingService.LogTelemetry{}),
	}
}

// UpdateTrack accepts one reported progress update for a pass
func (tc *TrackingController) UpdateTrack(c *fiber.Ctx) error {
	var req trackingTypes.TrackUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return tc.respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	if err := req.Validate(); err != nil {
		return tc.respond(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	userID, errResp := tc.resolveCaller(c)
	if errResp != nil {
		return errResp
	}

	result, err := tc.Service.UpdateTrack(userID, req)
	if err != nil {
		if trackingService.IsValidationError(err) {
			return tc.respond(c, fiber.StatusBadRequest, err.Error(), nil)
		}
		logger.Error("Failed to update trail track", err)
		return tc.respond(c, fiber.StatusInternalServerError, "Something went wrong", nil)
	}

	return tc.respond(c, fiber.StatusOK, "Trail track updated successfully", result)
}

// GetOngoingTrack returns the caller's currently active track with stage data
func (tc *TrackingController) GetOngoingTrack(c *fiber.Ctx) error {
	userID, errResp := tc.resolveCaller(c)
	if errResp != nil {
		return errResp
	}

	result, err := tc.Service.GetOngoingTrack(userID)
	if err != nil {
		if trackingService.IsValidationError(err) {
			return tc.respond(c, fiber.StatusBadRequest, err.Error(), nil)
		}
		logger.Error("Failed to load ongoing trail track", err)
		return tc.respond(c, fiber.StatusInternalServerError, "Something went wrong", nil)
	}

	return tc.respond(c, fiber.StatusOK, "Ongoing trail track retrieved successfully", result)
}

// resolveCaller maps the JWT claims set by the auth middleware to a user row.
// The second return value is the already-written error response, nil on success.
func (tc *TrackingController) resolveCaller(c *fiber.Ctx) (uint, error) {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return 0, tc.respond(c, fiber.StatusUnauthorized, "Invalid user claims", nil)
	}

	userUUID, ok := claims["uuid"].(string)
	if !ok || userUUID == "" {
		return 0, tc.respond(c, fiber.StatusUnauthorized, "User UUID not found in token", nil)
	}

	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		logger.Error("Error finding user by UUID", err)
		status := fiber.StatusInternalServerError
		msg := "Database error"
		if err.Error() == "user not found" {
			status = fiber.StatusUnauthorized
			msg = "User not found"
		}
		return 0, tc.respond(c, status, msg, nil)
	}

	return userInfo.ID, nil
}

// respond writes the response and queues the request log entry
func (tc *TrackingController) respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	err := c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: message,
		Data:    data,
	})
	if tc.Logger != nil {
		tc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	}
	return err
}
