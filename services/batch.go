package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"talktivity/config"
	"talktivity/models"
	courseModels "talktivity/models/course"

	"gorm.io/gorm"
)

// BatchService decides when to request the next 7-topic batch and applies it
// to the course. The course's batch number doubles as the idempotency token:
// an append only lands if the batch number still matches the one the decision
// was made against, so two racing triggers cannot double-append.
type BatchService struct {
	db    *gorm.DB
	cfg   *config.Config
	gen   TopicGenerator
	clock Clock
}

func NewBatchService(db *gorm.DB, cfg *config.Config, gen TopicGenerator, clock Clock) *BatchService {
	return &BatchService{db: db, cfg: cfg, gen: gen, clock: clock}
}

// BatchCheckResult reports the outcome of a trigger evaluation.
type BatchCheckResult struct {
	Triggered   bool   `json:"triggered"`
	Reason      string `json:"reason"`
	Week        int    `json:"week"`
	Day         int    `json:"day"`
	BatchNumber int    `json:"batch_number"`
	TopicsAdded int    `json:"topics_added,omitempty"`
}

// CheckAndTriggerNextBatch evaluates the trigger condition once and, when it
// fires, performs a single generation attempt. Generator failures surface as
// retryable GenerationErrors with the course untouched.
func (s *BatchService) CheckAndTriggerNextBatch(ctx context.Context, userID uint) (*BatchCheckResult, error) {
	course, err := getActiveCourse(s.db, userID)
	if err != nil {
		return nil, err
	}

	progress := CalculateProgress(course.StartDate, s.clock.Now())
	result := &BatchCheckResult{
		Week:        progress.Week,
		Day:         progress.Day,
		BatchNumber: course.BatchNumber,
	}

	if progress.Week >= s.cfg.CourseTotalWeeks {
		if err := s.markCourseCompleted(course); err != nil {
			return nil, err
		}
		result.Reason = "course_completed"
		return result, nil
	}

	// The batch number is the sole generation condition. Day 1 of a new week
	// is just the usual moment it falls behind; re-checking after an append
	// must be a no-op.
	if course.BatchNumber >= progress.Week {
		result.Reason = "up_to_date"
		return result, nil
	}

	added, err := s.generateNextBatch(ctx, course)
	if err != nil {
		s.markBatchPending(course)
		return nil, err
	}

	result.Triggered = true
	result.Reason = "batch_generated"
	result.BatchNumber = course.BatchNumber + 1
	result.TopicsAdded = added
	return result, nil
}

// markBatchPending records that the next batch is owed but not yet generated,
// so status reads surface the pending action until a retry lands it. The
// marker is cleared when the append succeeds.
func (s *BatchService) markBatchPending(course *courseModels.Course) {
	status := &courseModels.BatchStatus{
		Action:      courseModels.BatchActionGenerateNext,
		Message:     "Your next topic batch is being prepared.",
		BatchNumber: course.BatchNumber,
	}
	if err := s.db.Model(course).Update("batch_status", status).Error; err != nil {
		log.Printf("[BATCH] Failed to mark pending batch for course %d: %v", course.ID, err)
	}
}

// markCourseCompleted sets the terminal batch status once. Safe to call on
// every late-course trigger evaluation.
func (s *BatchService) markCourseCompleted(course *courseModels.Course) error {
	if course.BatchStatus != nil && course.BatchStatus.Action == courseModels.BatchActionCourseCompleted {
		return nil
	}
	status := &courseModels.BatchStatus{
		Action:      courseModels.BatchActionCourseCompleted,
		Message:     "Congratulations! You have completed the full 3-month course!",
		BatchNumber: course.BatchNumber,
	}
	return s.db.Model(course).Update("batch_status", status).Error
}

// generateNextBatch performs one generation attempt and appends the validated
// topics. Returns the number of topics appended.
func (s *BatchService) generateNextBatch(ctx context.Context, course *courseModels.Course) (int, error) {
	var profile models.OnboardingProfile
	if err := s.db.Where("user_id = ?", course.UserID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, NewValidationError("Onboarding data not found", "onboarding")
		}
		return 0, err
	}

	conversations, err := recentTranscripts(s.db, course.UserID, 5)
	if err != nil {
		return 0, err
	}

	excluded := make([]string, 0, len(course.Topics))
	for _, t := range course.Topics {
		excluded = append(excluded, t.Title)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.LLMTimeoutSecs)*time.Second)
	defer cancel()

	topics, err := s.gen.GenerateTopics(ctx, &profile, conversations, excluded)
	if err != nil {
		if _, ok := err.(*GenerationError); ok {
			return 0, err
		}
		return 0, &GenerationError{Message: "topic generation failed", Err: err}
	}

	valid := ValidateTopics(topics, excluded)
	if len(valid) < s.cfg.MinValidTopics {
		return 0, &GenerationError{
			Message: fmt.Sprintf("generator returned only %d valid topics (minimum %d)", len(valid), s.cfg.MinValidTopics),
		}
	}

	if err := s.appendBatch(course, valid); err != nil {
		return 0, err
	}

	log.Printf("[BATCH] Appended batch %d (%d topics) to course %d", course.BatchNumber+1, len(valid), course.ID)
	return len(valid), nil
}

// appendBatch applies the new topics with an optimistic check on the batch
// number. A concurrent append wins the race and this one fails with a
// ConflictError instead of double-appending.
func (s *BatchService) appendBatch(course *courseModels.Course, topics []courseModels.Topic) error {
	expected := course.BatchNumber
	merged := append(append(courseModels.TopicList{}, course.Topics...), topics...)

	res := s.db.Model(&courseModels.Course{}).
		Where("id = ? AND batch_number = ?", course.ID, expected).
		Updates(map[string]interface{}{
			"topics":       merged,
			"batch_number": expected + 1,
			"batch_status": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewConflictError("Batch generation already applied by a concurrent request")
	}
	return nil
}

// recentTranscripts fetches the newest transcripts for generator context.
func recentTranscripts(db *gorm.DB, userID uint, limit int) ([]string, error) {
	var rows []models.Conversation
	if err := db.Where("user_id = ? AND is_deleted = false", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Transcript)
	}
	return out, nil
}
