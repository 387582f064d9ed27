package utils

import (
	"log"
	"time"

	"talktivity/config"
	"talktivity/database"
	"talktivity/models"
	courseModels "talktivity/models/course"
	"talktivity/services"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializeSessionSweeper starts the background jobs: a minutely sweep that
// force-closes sessions running past their cap, and an evening streak
// reminder for users who have not finished the day.
func InitializeSessionSweeper() {
	log.Println("[SWEEPER] Initializing session sweeper...")

	c := cron.New()

	c.AddFunc("@every 1m", func() {
		sweeper := services.NewSessionService(database.Database.Db, config.AppConfig, services.SystemClock(), nil)
		if _, err := sweeper.SweepExpiredSessions(); err != nil {
			log.Printf("[SWEEPER] Sweep failed: %v", err)
		}
	})

	// 18:00 UTC daily
	c.AddFunc("0 18 * * *", func() {
		log.Println("[SWEEPER] Running daily streak reminder...")
		SendStreakReminders()
	})

	c.Start()
	log.Println("[SWEEPER] Session sweeper started")
}

// SendStreakReminders emails every learner with an active course who has not
// completed today's activities.
func SendStreakReminders() {
	db := database.Database.Db
	today := services.DateString(now.New(time.Now().UTC()).BeginningOfDay())

	var courses []courseModels.Course
	if err := db.Where("is_active = ?", true).Find(&courses).Error; err != nil {
		log.Printf("[SWEEPER] Error fetching active courses: %v", err)
		return
	}

	overview := services.NewOverviewService(db, config.AppConfig, services.SystemClock())
	sent := 0
	for _, course := range courses {
		progress := services.CalculateProgress(course.StartDate, time.Now().UTC())
		if progress.Week > config.AppConfig.CourseTotalWeeks {
			continue
		}
		dayType := services.DayTypeFor(progress.Day)

		var row courseModels.DailyProgress
		err := db.Where("user_id = ? AND date = ?", course.UserID, today).First(&row).Error
		if err == nil && services.IsDayComplete(dayType, &row) {
			continue
		}

		var user models.User
		if err := db.Select("name, email").First(&user, course.UserID).Error; err != nil || user.Email == "" {
			continue
		}

		streak := 0
		if ov, err := overview.GetOverview(course.UserID); err == nil {
			streak = ov.StreakDays
		}
		SendStreakReminderEmail(user.Email, user.Name, streak)
		sent++
	}
	log.Printf("[SWEEPER] Sent %d streak reminders", sent)
}
