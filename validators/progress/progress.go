package progressValidator

import (
	"talktivity/middleware"

	"github.com/gofiber/fiber/v2"
)

// Score validates a 0-100 quiz score in the request body.
func Score() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Score *int `json:"score"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Score == nil {
			errors["score"] = "Score is required!"
		} else if *reqData.Score < 0 || *reqData.Score > 100 {
			errors["score"] = "Score must be between 0 and 100!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedScore", *reqData.Score)
		return c.Next()
	}
}

// Duration validates a non-negative duration in seconds.
func Duration() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			DurationSeconds *int `json:"durationSeconds"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.DurationSeconds == nil {
			errors["durationSeconds"] = "Duration is required!"
		} else if *reqData.DurationSeconds < 0 {
			errors["durationSeconds"] = "Duration cannot be negative!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDuration", *reqData.DurationSeconds)
		return c.Next()
	}
}

// Exam validates the weekly exam submission.
func Exam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Score           int `json:"score"`
			DurationSeconds int `json:"durationSeconds"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Score < 0 || reqData.Score > 100 {
			errors["score"] = "Score must be between 0 and 100!"
		}
		if reqData.DurationSeconds < 0 {
			errors["durationSeconds"] = "Duration cannot be negative!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedExam", reqData)
		return c.Next()
	}
}
