package courseRoutes

import (
	courseControllers "talktivity/controllers/course"
	"talktivity/middleware"
	courseValidators "talktivity/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	courseGroup.Post("/initialize", middleware.JWTMiddleware, courseControllers.InitializeCourse)
	courseGroup.Get("/status", middleware.JWTMiddleware, courseValidators.OptionalDate(), courseControllers.GetStatus)
	courseGroup.Get("/timeline", middleware.JWTMiddleware, courseValidators.OptionalDate(), courseControllers.GetTimeline)
	courseGroup.Post("/batch/check", middleware.JWTMiddleware, courseControllers.CheckBatch)
}
