package conversationValidator

import (
	"strings"

	"talktivity/middleware"

	"github.com/gofiber/fiber/v2"
)

// SaveConversation validates the transcript payload.
func SaveConversation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Transcript string `json:"transcript"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		transcript := strings.TrimSpace(reqData.Transcript)
		if transcript == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"transcript": "Transcript is required!",
			})
		}

		c.Locals("validatedTranscript", transcript)
		return c.Next()
	}
}
