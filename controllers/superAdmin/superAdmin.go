package superAdminController

import (
	"time"

	"talktivity/database"
	"talktivity/middleware"
	"talktivity/models"
	courseModels "talktivity/models/course"
	"talktivity/services"

	"github.com/gofiber/fiber/v2"
)

func UserList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validateUserList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offset := (*reqData.Page - 1) * (*reqData.Limit)

	var users []models.User
	var total int64

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)
	db.Count(&total)

	if err := db.Omit("password").
		Offset(offset).Limit(*reqData.Limit).
		Order("created_at desc").
		Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}
	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
	})
}

// Stats returns platform-wide counters for the admin dashboard.
func Stats(c *fiber.Ctx) error {
	db := database.Database.Db
	today := services.DateString(time.Now().UTC())

	var totalUsers, activeCourses, sessionsToday, openSessions, examsCompleted int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&courseModels.Course{}).Where("is_active = ?", true).Count(&activeCourses)
	db.Model(&courseModels.SpeakingSession{}).Where("date = ?", today).Count(&sessionsToday)
	db.Model(&courseModels.SpeakingSession{}).Where("end_time IS NULL").Count(&openSessions)
	db.Model(&courseModels.WeeklyExam{}).Where("exam_completed = ?", true).Count(&examsCompleted)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully.", fiber.Map{
		"totalUsers":     totalUsers,
		"activeCourses":  activeCourses,
		"sessionsToday":  sessionsToday,
		"openSessions":   openSessions,
		"examsCompleted": examsCompleted,
	})
}

// UserCourse returns one user's active course and overview, for support.
func UserCourse(c *fiber.Ctx) error {
	targetID, ok := c.Locals("validatedUserId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.
		Where("user_id = ? AND is_active = ?", targetID, true).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Active course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User course fetched successfully.", fiber.Map{
		"course":     course,
		"topicCount": len(course.Topics),
	})
}
