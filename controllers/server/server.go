package server

import (
	"time"

	"trail-pass/types"

	"github.com/gofiber/fiber/v2"
)

var startedAt = time.Now()

// HealthCheck reports service liveness and uptime
func HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "OK",
		Data: map[string]interface{}{
			"uptime": time.Since(startedAt).String(),
		},
	})
}
