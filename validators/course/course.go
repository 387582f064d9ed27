package courseValidator

import (
	"regexp"
	"strings"

	"talktivity/middleware"

	"github.com/gofiber/fiber/v2"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// OptionalDate validates the optional ?date=YYYY-MM-DD query parameter and
// stores it in locals. An empty value means "today".
func OptionalDate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := strings.TrimSpace(c.Query("date"))
		if date != "" && !dateRe.MatchString(date) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid date format. Expected YYYY-MM-DD", nil)
		}
		c.Locals("validatedDate", date)
		return c.Next()
	}
}
