package utils

import (
	"log"
	"time"

	"talktivity/database"
	"talktivity/models"

	"github.com/robfig/cron/v3"
)

// InitializeSubscriptionScheduler sets up the subscription expiry scheduler
func InitializeSubscriptionScheduler() {
	log.Println("[SUBSCRIPTION-SCHEDULER] Initializing subscription scheduler...")

	c := cron.New()

	// Run daily at 9 AM UTC
	c.AddFunc("0 9 * * *", func() {
		log.Println("[SUBSCRIPTION-SCHEDULER] Running daily subscription check...")
		ExpireSubscriptions()
	})

	c.Start()
	log.Println("[SUBSCRIPTION-SCHEDULER] Subscription scheduler started")
}

// ExpireSubscriptions marks active subscriptions past their end date as
// expired. Expired users fall back to free-trial caps.
func ExpireSubscriptions() {
	db := database.Database.Db

	result := db.Model(&models.Subscription{}).
		Where("status = ? AND is_deleted = false AND end_date < ?", "active", time.Now()).
		Update("status", "expired")
	if result.Error != nil {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Error expiring subscriptions: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Expired %d subscriptions", result.RowsAffected)
	}
}
