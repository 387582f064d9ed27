package main

import (
	"log"

	"talktivity/config"
	"talktivity/database"
	authRoutes "talktivity/routers/authRoutes"
	conversationRoutes "talktivity/routers/conversationRoutes"
	courseRoutes "talktivity/routers/courseRoutes"
	onboardingRoutes "talktivity/routers/onboardingRoutes"
	progressRoutes "talktivity/routers/progressRoutes"
	sessionRoutes "talktivity/routers/sessionRoutes"
	superAdminRoutes "talktivity/routers/superAdmin"
	userProfileRoutes "talktivity/routers/userRoutes"
	"talktivity/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	onboardingRoutes.SetupOnboardingRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	sessionRoutes.SetupSessionRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	conversationRoutes.SetupConversationRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	superAdminRoutes.SetupSuperAdminRoutes(app)

	utils.InitializeSessionSweeper()
	utils.InitializeSubscriptionScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
