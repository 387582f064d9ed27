package superAdminRoutes

import (
	superAdminController "talktivity/controllers/superAdmin"
	"talktivity/middleware"
	superAdminValidator "talktivity/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")

	adminGroup.Get("/user/list", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), superAdminValidator.List(), superAdminController.UserList)
	adminGroup.Get("/stats", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), superAdminController.Stats)
	adminGroup.Get("/user/:user_id/course", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), superAdminValidator.UserID(), superAdminController.UserCourse)
}
