package course

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Batch status actions
const (
	BatchActionGenerateNext    = "generate_next_batch"
	BatchActionCourseCompleted = "course_completed"
)

// Topic is one unit of personalized speaking content. Immutable once appended
// to a course; addressed by day index (week-1)*7 + (day-1).
type Topic struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	Prompt      string `json:"prompt"`
	FirstPrompt string `json:"firstPrompt"`
	IsCustom    bool   `json:"isCustom"`
	Category    string `json:"category"`
}

// TopicList is stored as a JSON column. Append-only: it grows one batch at a
// time and never shrinks.
type TopicList []Topic

func (t TopicList) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TopicList) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return errors.New("unsupported type for TopicList")
	}
}

// BatchStatus is a tagged status on the course: either the next batch needs
// generating or the course is finished. Nil when no action is pending.
type BatchStatus struct {
	Action      string `json:"action"`
	Message     string `json:"message"`
	BatchNumber int    `json:"batch_number"`
}

func (b *BatchStatus) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	out, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(out), nil
}

func (b *BatchStatus) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return errors.New("unsupported type for BatchStatus")
	}
}

// Course is the 12-week curriculum record. At most one active course per user.
type Course struct {
	gorm.Model
	UserID      uint         `json:"user_id" gorm:"index;not null"`
	StartDate   time.Time    `json:"start_date"` // UTC midnight
	EndDate     time.Time    `json:"end_date"`   // StartDate + 84 days
	IsActive    bool         `json:"is_active" gorm:"default:true;index"`
	BatchNumber int          `json:"batch_number" gorm:"default:1"`
	BatchStatus *BatchStatus `json:"batch_status" gorm:"type:jsonb"`
	Topics      TopicList    `json:"topics" gorm:"type:jsonb"`
}

// TopicForDayIndex returns the personalized topic for a zero-based day index,
// or nil when the batch covering that day has not been generated yet.
func (c *Course) TopicForDayIndex(dayIndex int) *Topic {
	if dayIndex < 0 || dayIndex >= len(c.Topics) {
		return nil
	}
	t := c.Topics[dayIndex]
	return &t
}
