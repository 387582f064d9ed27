package sessionValidator

import (
	"strings"

	"talktivity/middleware"

	"github.com/gofiber/fiber/v2"
)

// StartSession validates the session kind in the request body.
func StartSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Kind string `json:"kind"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		kind := strings.ToLower(strings.TrimSpace(reqData.Kind))
		switch kind {
		case "practice", "roleplay", "call":
		default:
			return middleware.ValidationErrorResponse(c, map[string]string{
				"kind": "Kind must be one of: practice, roleplay, call!",
			})
		}

		c.Locals("validatedKind", kind)
		return c.Next()
	}
}
