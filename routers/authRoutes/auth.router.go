package authRoutes

import (
	authControllers "talktivity/controllers/auth"
	"talktivity/middleware"
	authValidators "talktivity/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/login/history", middleware.JWTMiddleware, authControllers.LoginHistoryList)
}
