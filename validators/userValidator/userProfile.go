package userValidator

import (
	"strings"

	"talktivity/middleware"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfile validates the editable profile fields.
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name           string `json:"name"`
			NativeLanguage string `json:"nativeLanguage"`
			ProfileImage   string `json:"profileImage"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.NativeLanguage = strings.TrimSpace(reqData.NativeLanguage)
		reqData.ProfileImage = strings.TrimSpace(reqData.ProfileImage)

		if reqData.Name != "" && len(reqData.Name) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

// ChangePassword validates the password change payload.
func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			OldPassword string `json:"oldPassword"`
			NewPassword string `json:"newPassword"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.OldPassword == "" {
			errors["oldPassword"] = "Old password is required!"
		}
		if len(strings.TrimSpace(reqData.NewPassword)) < 8 {
			errors["newPassword"] = "New password must be at least 8 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPassword", reqData)
		return c.Next()
	}
}
