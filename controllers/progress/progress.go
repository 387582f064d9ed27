package progressController

import (
	"talktivity/config"
	"talktivity/database"
	"talktivity/middleware"
	"talktivity/services"

	"github.com/gofiber/fiber/v2"
)

func progressService() *services.ProgressService {
	db := database.Database.Db
	cfg := config.AppConfig
	clock := services.SystemClock()
	batch := services.NewBatchService(db, cfg, services.NewGroqGenerator(cfg), clock)
	return services.NewProgressService(db, cfg, clock, batch)
}

func overviewService() *services.OverviewService {
	return services.NewOverviewService(database.Database.Db, config.AppConfig, services.SystemClock())
}

// CompleteSpeakingQuiz records the post-speaking quiz score for today.
func CompleteSpeakingQuiz(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	score, ok := c.Locals("validatedScore").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	row, err := progressService().CompleteSpeakingQuiz(userId, score)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz completed.", row)
}

// CompleteListening records the listening activity for today.
func CompleteListening(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	duration, ok := c.Locals("validatedDuration").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	row, err := progressService().CompleteListening(userId, duration)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Listening completed.", row)
}

// CompleteListeningQuiz records the listening quiz score for today.
func CompleteListeningQuiz(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	score, ok := c.Locals("validatedScore").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	row, err := progressService().CompleteListeningQuiz(userId, score)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Listening quiz completed.", row)
}

// CompleteExam records the weekly exam on a day-7.
func CompleteExam(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedExam").(*struct {
		Score           int `json:"score"`
		DurationSeconds int `json:"durationSeconds"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	row, err := progressService().CompleteExam(userId, reqData.Score, reqData.DurationSeconds)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam completed.", row)
}

// GetDailyProgress returns the day's progress row, gates and remaining pools.
func GetDailyProgress(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	date, _ := c.Locals("validatedDate").(string)

	view, err := progressService().GetDailyProgress(userId, date)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Daily progress fetched.", view)
}

// GetOverview returns streak, XP, level and badges.
func GetOverview(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	overview, err := overviewService().GetOverview(userId)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Overview fetched.", overview)
}
