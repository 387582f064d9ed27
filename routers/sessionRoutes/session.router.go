package sessionRoutes

import (
	sessionControllers "talktivity/controllers/session"
	"talktivity/middleware"
	sessionValidators "talktivity/validators/session"

	"github.com/gofiber/fiber/v2"
)

func SetupSessionRoutes(app *fiber.App) {
	sessionGroup := app.Group("/session")

	sessionGroup.Post("/start", middleware.JWTMiddleware, sessionValidators.StartSession(), sessionControllers.StartSession)
	sessionGroup.Post("/end", middleware.JWTMiddleware, sessionControllers.EndSession)
	sessionGroup.Get("/check-time", middleware.JWTMiddleware, sessionControllers.CheckTime)
}
