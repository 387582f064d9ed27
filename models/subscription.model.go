package models

import (
	"time"

	"gorm.io/gorm"
)

// Plan types determining roleplay time caps
const (
	PlanTypePro       = "Pro"
	PlanTypeBasic     = "Basic"
	PlanTypeFreeTrial = "FreeTrial"
)

// Subscription is the minimal plan record this engine needs. Payment gateway
// plumbing lives outside this service; it only writes these rows.
type Subscription struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	PlanType  string    `json:"plan_type" gorm:"default:'Basic'"` // Pro, Basic, FreeTrial
	Status    string    `json:"status" gorm:"default:'active'"`   // active, expired, cancelled
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsDeleted bool      `gorm:"default:false"`
}
