package onboardingRoutes

import (
	onboardingControllers "talktivity/controllers/onboarding"
	"talktivity/middleware"
	onboardingValidators "talktivity/validators/onboarding"

	"github.com/gofiber/fiber/v2"
)

func SetupOnboardingRoutes(app *fiber.App) {
	onboardingGroup := app.Group("/onboarding")

	onboardingGroup.Get("/", middleware.JWTMiddleware, onboardingControllers.GetOnboarding)
	onboardingGroup.Put("/", middleware.JWTMiddleware, onboardingValidators.SaveOnboarding(), onboardingControllers.SaveOnboarding)

	lifecycleGroup := app.Group("/lifecycle")
	lifecycleGroup.Get("/", middleware.JWTMiddleware, onboardingControllers.GetLifecycle)
	lifecycleGroup.Patch("/:milestone", middleware.JWTMiddleware, onboardingValidators.Milestone(), onboardingControllers.CompleteMilestone)
}
