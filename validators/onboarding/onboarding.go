package onboardingValidator

import (
	"strings"

	"talktivity/middleware"
	"talktivity/models"

	"github.com/gofiber/fiber/v2"
)

// SaveOnboarding parses and trims the profile payload. Partial saves are
// allowed; completeness is checked at course initialization.
func SaveOnboarding() fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile := new(models.OnboardingProfile)
		if err := c.BodyParser(profile); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		profile.SkillToImprove = strings.TrimSpace(profile.SkillToImprove)
		profile.LanguageStatement = strings.TrimSpace(profile.LanguageStatement)
		profile.Industry = strings.TrimSpace(profile.Industry)
		profile.SpeakingFeelings = strings.TrimSpace(profile.SpeakingFeelings)
		profile.SpeakingFrequency = strings.TrimSpace(profile.SpeakingFrequency)
		profile.MainGoal = strings.TrimSpace(profile.MainGoal)
		profile.Gender = strings.TrimSpace(profile.Gender)
		profile.CurrentLearningMethods = strings.TrimSpace(profile.CurrentLearningMethods)
		profile.CurrentLevel = strings.TrimSpace(profile.CurrentLevel)
		profile.NativeLanguage = strings.TrimSpace(profile.NativeLanguage)
		profile.KnownWords1 = strings.TrimSpace(profile.KnownWords1)
		profile.KnownWords2 = strings.TrimSpace(profile.KnownWords2)
		profile.Interests = strings.TrimSpace(profile.Interests)
		profile.EnglishStyle = strings.TrimSpace(profile.EnglishStyle)
		profile.TutorStyle = strings.TrimSpace(profile.TutorStyle)

		c.Locals("validatedOnboarding", profile)
		return c.Next()
	}
}

var milestoneColumns = map[string]string{
	"onboarding": "onboarding_completed",
	"call":       "call_completed",
	"report":     "report_completed",
	"upgrade":    "upgrade_completed",
}

// Milestone validates the :milestone path parameter.
func Milestone() fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := strings.ToLower(strings.TrimSpace(c.Params("milestone")))
		column, ok := milestoneColumns[name]
		if !ok {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"milestone": "Milestone must be one of: onboarding, call, report, upgrade!",
			})
		}
		c.Locals("validatedMilestone", column)
		return c.Next()
	}
}
