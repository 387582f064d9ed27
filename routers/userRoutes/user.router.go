package userProfileRoutes

import (
	userControllers "talktivity/controllers/userControllers"
	"talktivity/middleware"
	userValidators "talktivity/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userControllers.GetProfile)
	userGroup.Put("/profile", middleware.JWTMiddleware, userValidators.UpdateProfile(), userControllers.UpdateProfile)
	userGroup.Put("/change/password", middleware.JWTMiddleware, userValidators.ChangePassword(), userControllers.ChangePassword)
}
