package onboardingController

import (
	"log"

	"talktivity/database"
	"talktivity/middleware"
	"talktivity/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOnboarding returns the user's profile plus the fields still missing.
func GetOnboarding(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var profile models.OnboardingProfile
	err := database.Database.Db.Where("user_id = ?", userId).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Onboarding not started.", fiber.Map{
				"profile":  nil,
				"complete": false,
			})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch onboarding data!", nil)
	}

	missing := profile.MissingFields()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Onboarding fetched successfully.", fiber.Map{
		"profile":       profile,
		"complete":      len(missing) == 0,
		"missingFields": missing,
	})
}

// SaveOnboarding upserts the profile and flags the onboarding milestone once
// every field is filled.
func SaveOnboarding(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	profile, ok := c.Locals("validatedOnboarding").(*models.OnboardingProfile)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	profile.UserID = userId

	db := database.Database.Db
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"skill_to_improve", "language_statement", "industry", "speaking_feelings",
			"speaking_frequency", "main_goal", "gender", "current_learning_methods",
			"current_level", "native_language", "known_words_1", "known_words_2",
			"interests", "english_style", "tutor_style",
		}),
	}).Create(profile).Error
	if err != nil {
		log.Printf("Error saving onboarding for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save onboarding data!", nil)
	}

	missing := profile.MissingFields()
	if len(missing) == 0 {
		if err := db.Model(&models.UserLifecycle{}).
			Where("user_id = ?", userId).
			Update("onboarding_completed", true).Error; err != nil {
			log.Printf("Error updating lifecycle for user %d: %v", userId, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Onboarding saved successfully.", fiber.Map{
		"profile":       profile,
		"complete":      len(missing) == 0,
		"missingFields": missing,
	})
}

// GetLifecycle returns the pre-course milestone state.
func GetLifecycle(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var lifecycle models.UserLifecycle
	err := database.Database.Db.Where("user_id = ?", userId).First(&lifecycle).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lifecycle not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lifecycle!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lifecycle fetched successfully.", fiber.Map{
		"lifecycle":  lifecycle,
		"incomplete": lifecycle.IncompleteMilestones(),
	})
}

// CompleteMilestone marks one lifecycle milestone as done.
func CompleteMilestone(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	column, ok := c.Locals("validatedMilestone").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result := database.Database.Db.Model(&models.UserLifecycle{}).
		Where("user_id = ?", userId).
		Update(column, true)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update milestone!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lifecycle not found!", nil)
	}

	var lifecycle models.UserLifecycle
	if err := database.Database.Db.Where("user_id = ?", userId).First(&lifecycle).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lifecycle!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Milestone completed.", fiber.Map{
		"lifecycle":  lifecycle,
		"incomplete": lifecycle.IncompleteMilestones(),
	})
}
