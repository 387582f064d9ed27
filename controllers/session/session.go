package sessionController

import (
	"talktivity/config"
	"talktivity/database"
	"talktivity/middleware"
	"talktivity/services"

	"github.com/gofiber/fiber/v2"
)

func sessionService() *services.SessionService {
	db := database.Database.Db
	cfg := config.AppConfig
	clock := services.SystemClock()
	batch := services.NewBatchService(db, cfg, services.NewGroqGenerator(cfg), clock)
	return services.NewSessionService(db, cfg, clock, batch)
}

// StartSession opens a timed speaking session of the requested kind.
func StartSession(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	kind, ok := c.Locals("validatedKind").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	state, err := sessionService().StartSession(userId, kind)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Session started.", state)
}

// EndSession closes the user's open session and records the clamped duration.
func EndSession(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	result, err := sessionService().EndSession(userId)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session ended.", result)
}

// CheckTime reports elapsed and remaining seconds for the open session.
func CheckTime(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	state, err := sessionService().CheckTime(userId)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session time fetched.", state)
}
