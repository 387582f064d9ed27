package progressRoutes

import (
	progressControllers "talktivity/controllers/progress"
	"talktivity/middleware"
	courseValidators "talktivity/validators/course"
	progressValidators "talktivity/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress")

	progressGroup.Post("/quiz", middleware.JWTMiddleware, progressValidators.Score(), progressControllers.CompleteSpeakingQuiz)
	progressGroup.Post("/listening", middleware.JWTMiddleware, progressValidators.Duration(), progressControllers.CompleteListening)
	progressGroup.Post("/listening-quiz", middleware.JWTMiddleware, progressValidators.Score(), progressControllers.CompleteListeningQuiz)
	progressGroup.Post("/exam", middleware.JWTMiddleware, progressValidators.Exam(), progressControllers.CompleteExam)
	progressGroup.Get("/daily", middleware.JWTMiddleware, courseValidators.OptionalDate(), progressControllers.GetDailyProgress)
	progressGroup.Get("/overview", middleware.JWTMiddleware, progressControllers.GetOverview)
}
