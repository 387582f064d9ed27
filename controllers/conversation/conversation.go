package conversationController

import (
	"log"
	"time"

	"talktivity/database"
	"talktivity/middleware"
	"talktivity/models"

	"github.com/gofiber/fiber/v2"
)

// SaveConversation stores a practice transcript. Recent transcripts feed the
// topic generator.
func SaveConversation(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	transcript, ok := c.Locals("validatedTranscript").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	conversation := models.Conversation{
		UserID:     userId,
		Transcript: transcript,
		Timestamp:  time.Now().UTC(),
	}
	if err := database.Database.Db.Create(&conversation).Error; err != nil {
		log.Printf("Error saving conversation for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save conversation!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Conversation saved.", conversation)
}

// ListConversations returns the user's transcripts, newest first.
func ListConversations(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var conversations []models.Conversation
	if err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("timestamp desc").
		Limit(limit).
		Find(&conversations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch conversations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversations fetched successfully.", fiber.Map{
		"conversations": conversations,
	})
}
