package conversationRoutes

import (
	conversationControllers "talktivity/controllers/conversation"
	"talktivity/middleware"
	conversationValidators "talktivity/validators/conversation"

	"github.com/gofiber/fiber/v2"
)

func SetupConversationRoutes(app *fiber.App) {
	conversationGroup := app.Group("/conversation")

	conversationGroup.Post("/", middleware.JWTMiddleware, conversationValidators.SaveConversation(), conversationControllers.SaveConversation)
	conversationGroup.Get("/list", middleware.JWTMiddleware, conversationControllers.ListConversations)
}
