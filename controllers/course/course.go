package courseController

import (
	"talktivity/config"
	"talktivity/database"
	"talktivity/middleware"
	"talktivity/services"

	"github.com/gofiber/fiber/v2"
)

var topicGen services.TopicGenerator

func generator() services.TopicGenerator {
	if topicGen == nil {
		topicGen = services.NewGroqGenerator(config.AppConfig)
	}
	return topicGen
}

func courseService() *services.CourseService {
	return services.NewCourseService(database.Database.Db, config.AppConfig, generator(), services.SystemClock())
}

func batchService() *services.BatchService {
	return services.NewBatchService(database.Database.Db, config.AppConfig, generator(), services.SystemClock())
}

// InitializeCourse creates the personalized 12-week course for the user.
func InitializeCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	course, err := courseService().InitializeCourse(c.Context(), userId)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course initialized successfully.", course)
}

// GetStatus returns the current course position, today's topic and gates.
func GetStatus(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	asOfDate, _ := c.Locals("validatedDate").(string)

	status, err := courseService().GetStatus(userId, asOfDate)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course status fetched successfully.", status)
}

// GetTimeline returns the full 84-day timeline with per-day completion.
func GetTimeline(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	asOfDate, _ := c.Locals("validatedDate").(string)

	timeline, err := courseService().GetTimeline(userId, asOfDate)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Timeline fetched successfully.", timeline)
}

// CheckBatch evaluates the next-batch trigger for the user's course.
func CheckBatch(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	result, err := batchService().CheckAndTriggerNextBatch(c.Context(), userId)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch check completed.", result)
}
