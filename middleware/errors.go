package middleware

import (
	"errors"
	"log"

	"talktivity/services"

	"github.com/gofiber/fiber/v2"
)

// ServiceErrorResponse maps a service-layer error onto the standard JSON
// envelope with the right status code.
func ServiceErrorResponse(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return JsonResponse(c, fiber.StatusBadRequest, false, verr.Message, fiber.Map{"field": verr.Field})
	}

	var nf *services.NotFoundError
	if errors.As(err, &nf) {
		return JsonResponse(c, fiber.StatusNotFound, false, nf.Error(), nil)
	}

	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		return JsonResponse(c, fiber.StatusConflict, false, conflict.Message, nil)
	}

	var quota *services.QuotaExceededError
	if errors.As(err, &quota) {
		return JsonResponse(c, fiber.StatusTooManyRequests, false, quota.Error(), fiber.Map{
			"pool":        quota.Pool,
			"capSeconds":  quota.CapSeconds,
			"usedSeconds": quota.UsedSeconds,
		})
	}

	var genErr *services.GenerationError
	if errors.As(err, &genErr) {
		return JsonResponse(c, fiber.StatusBadGateway, false, "Content generation failed. Please try again.", fiber.Map{
			"retryable": true,
		})
	}

	log.Printf("Unhandled service error: %v", err)
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
}
