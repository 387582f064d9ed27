package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"talktivity/config"
	"talktivity/models"
	courseModels "talktivity/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// expiryGrace is how long past its cap an open session may run before the
// sweeper force-closes it.
const expiryGrace = 30 * time.Second

// SessionService meters speaking time against the practice, roleplay and
// call pools and keeps daily progress in sync when sessions close.
type SessionService struct {
	db    *gorm.DB
	cfg   *config.Config
	clock Clock
	batch *BatchService
}

func NewSessionService(db *gorm.DB, cfg *config.Config, clock Clock, batch *BatchService) *SessionService {
	return &SessionService{db: db, cfg: cfg, clock: clock, batch: batch}
}

// sessionDailyUsage sums closed-session seconds for one kind on one date.
func sessionDailyUsage(db *gorm.DB, userID uint, kind, date string) (int, error) {
	var total int64
	err := db.Model(&courseModels.SpeakingSession{}).
		Where("user_id = ? AND kind = ? AND date = ? AND end_time IS NOT NULL", userID, kind, date).
		Select("COALESCE(SUM(duration_seconds), 0)").Scan(&total).Error
	return int(total), err
}

// sessionLifetimeUsage sums closed-session seconds for one kind across all dates.
func sessionLifetimeUsage(db *gorm.DB, userID uint, kind string) (int, error) {
	var total int64
	err := db.Model(&courseModels.SpeakingSession{}).
		Where("user_id = ? AND kind = ? AND end_time IS NOT NULL", userID, kind).
		Select("COALESCE(SUM(duration_seconds), 0)").Scan(&total).Error
	return int(total), err
}

// activePlanType returns the user's current plan, defaulting to the free
// trial when no active subscription exists.
func activePlanType(db *gorm.DB, userID uint, now time.Time) (string, error) {
	var sub models.Subscription
	err := db.Where("user_id = ? AND status = ? AND is_deleted = false AND end_date > ?",
		userID, "active", now).
		Order("end_date DESC").First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.PlanTypeFreeTrial, nil
		}
		return "", err
	}
	return sub.PlanType, nil
}

// poolCap resolves the cap in seconds for a session kind under a plan.
func (s *SessionService) poolCap(kind, planType string) int {
	switch kind {
	case courseModels.SessionKindPractice:
		return s.cfg.PracticeDailyCapSeconds
	case courseModels.SessionKindRoleplay:
		if planType == models.PlanTypePro {
			return s.cfg.RoleplayProCapSeconds
		}
		return s.cfg.RoleplayBasicCapSeconds
	case courseModels.SessionKindCall:
		return s.cfg.CallLifetimeCapSeconds
	}
	return 0
}

// poolUsage returns seconds already consumed from the pool the kind draws from.
func (s *SessionService) poolUsage(userID uint, kind, date string) (int, error) {
	if kind == courseModels.SessionKindCall {
		return sessionLifetimeUsage(s.db, userID, kind)
	}
	return sessionDailyUsage(s.db, userID, kind, date)
}

// SessionState is returned by start and check-time calls. AutoCompleted is
// set when a check-time call found the pool spent and closed the session.
type SessionState struct {
	SessionID        uint   `json:"sessionId"`
	RoomName         string `json:"roomName"`
	Kind             string `json:"kind"`
	Date             string `json:"date"`
	StartTime        string `json:"startTime"`
	ElapsedSeconds   int    `json:"elapsedSeconds"`
	SecondsRemaining int    `json:"secondsRemaining"`
	CapSeconds       int    `json:"capSeconds"`
	AutoCompleted    bool   `json:"autoCompleted"`
}

func validSessionKind(kind string) bool {
	switch kind {
	case courseModels.SessionKindPractice, courseModels.SessionKindRoleplay, courseModels.SessionKindCall:
		return true
	}
	return false
}

// StartSession opens a session against the pool for kind. Fails when a
// session is already open or the pool is exhausted.
func (s *SessionService) StartSession(userID uint, kind string) (*SessionState, error) {
	if !validSessionKind(kind) {
		return nil, NewValidationError(fmt.Sprintf("unknown session kind %q", kind), "kind")
	}

	course, err := getActiveCourse(s.db, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	date := DateString(now)

	var open courseModels.SpeakingSession
	err = s.db.Where("user_id = ? AND end_time IS NULL", userID).First(&open).Error
	if err == nil {
		return nil, NewConflictError("a session is already in progress")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	plan, err := activePlanType(s.db, userID, now)
	if err != nil {
		return nil, err
	}
	capSeconds := s.poolCap(kind, plan)
	used, err := s.poolUsage(userID, kind, date)
	if err != nil {
		return nil, err
	}
	remaining := capSeconds - used
	if remaining <= 0 {
		return nil, &QuotaExceededError{Pool: kind, CapSeconds: capSeconds, UsedSeconds: used}
	}

	session := courseModels.SpeakingSession{
		UserID:    userID,
		CourseID:  course.ID,
		Kind:      kind,
		RoomName:  fmt.Sprintf("%s-%s", kind, uuid.NewString()),
		Date:      date,
		StartTime: now,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}

	if kind == courseModels.SessionKindPractice {
		if row, perr := ensureDailyProgress(s.db, userID, course.ID, date); perr == nil {
			if terr := touchSpeakingStart(s.db, row, now); terr != nil {
				log.Printf("[SESSION] Failed to stamp speaking start for user %d: %v", userID, terr)
			}
		}
	}

	log.Printf("[SESSION] User %d started %s session %d (%ds remaining)", userID, kind, session.ID, remaining)
	return &SessionState{
		SessionID:        session.ID,
		RoomName:         session.RoomName,
		Kind:             kind,
		Date:             date,
		StartTime:        now.UTC().Format(time.RFC3339),
		ElapsedSeconds:   0,
		SecondsRemaining: remaining,
		CapSeconds:       capSeconds,
	}, nil
}

// EndResult reports what closing a session did.
type EndResult struct {
	SessionID        uint   `json:"sessionId"`
	Kind             string `json:"kind"`
	DurationSeconds  int    `json:"durationSeconds"`
	SecondsRemaining int    `json:"secondsRemaining"`
	PoolExhausted    bool   `json:"poolExhausted"`
	AutoCompleted    bool   `json:"autoCompleted"`
}

// EndSession closes the user's open session. The recorded duration is
// clamped so the day's (or lifetime's) total never exceeds the pool cap.
func (s *SessionService) EndSession(userID uint) (*EndResult, error) {
	var session courseModels.SpeakingSession
	err := s.db.Where("user_id = ? AND end_time IS NULL", userID).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("Open session")
		}
		return nil, err
	}
	return s.closeSession(&session, s.clock.Now(), false)
}

// closeSession finalizes a session at endAt, clamping to pool remaining and
// folding the duration into daily progress.
func (s *SessionService) closeSession(session *courseModels.SpeakingSession, endAt time.Time, auto bool) (*EndResult, error) {
	plan, err := activePlanType(s.db, session.UserID, endAt)
	if err != nil {
		return nil, err
	}
	capSeconds := s.poolCap(session.Kind, plan)
	used, err := s.poolUsage(session.UserID, session.Kind, session.Date)
	if err != nil {
		return nil, err
	}

	elapsed := int(endAt.Sub(session.StartTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := capSeconds - used
	if remaining < 0 {
		remaining = 0
	}
	duration := elapsed
	if duration > remaining {
		duration = remaining
	}

	updates := map[string]interface{}{
		"end_time":         endAt,
		"duration_seconds": duration,
		"auto_completed":   auto,
	}
	if err := s.db.Model(session).Updates(updates).Error; err != nil {
		return nil, err
	}

	exhausted := used+duration >= capSeconds
	if err := s.applySessionProgress(session, duration, exhausted, endAt); err != nil {
		return nil, err
	}

	log.Printf("[SESSION] User %d closed %s session %d: %ds recorded (auto=%t, exhausted=%t)",
		session.UserID, session.Kind, session.ID, duration, auto, exhausted)

	return &EndResult{
		SessionID:        session.ID,
		Kind:             session.Kind,
		DurationSeconds:  duration,
		SecondsRemaining: capSeconds - (used + duration),
		PoolExhausted:    exhausted,
		AutoCompleted:    auto,
	}, nil
}

// applySessionProgress folds a closed session into the daily progress row,
// marks the activity complete when its pool is exhausted, and runs the batch
// check when that completes the speaking activity.
func (s *SessionService) applySessionProgress(session *courseModels.SpeakingSession, duration int, exhausted bool, endAt time.Time) error {
	switch session.Kind {
	case courseModels.SessionKindPractice:
		row, err := ensureDailyProgress(s.db, session.UserID, session.CourseID, session.Date)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"speaking_duration_seconds": gorm.Expr("speaking_duration_seconds + ?", duration),
			"total_time_seconds":        gorm.Expr("total_time_seconds + ?", duration),
		}
		if exhausted && !row.SpeakingCompleted {
			updates["speaking_completed"] = true
			updates["speaking_ended_at"] = endAt
		}
		if err := s.db.Model(&courseModels.DailyProgress{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
			return err
		}
		if exhausted && !row.SpeakingCompleted && s.batch != nil {
			if _, err := s.batch.CheckAndTriggerNextBatch(context.Background(), session.UserID); err != nil {
				log.Printf("[SESSION] Batch check after speaking completion failed for user %d: %v", session.UserID, err)
			}
		}
	case courseModels.SessionKindRoleplay:
		row, err := ensureDailyProgress(s.db, session.UserID, session.CourseID, session.Date)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"roleplay_duration_seconds": gorm.Expr("roleplay_duration_seconds + ?", duration),
			"total_time_seconds":        gorm.Expr("total_time_seconds + ?", duration),
		}
		if exhausted && !row.RoleplayCompleted {
			updates["roleplay_completed"] = true
			updates["roleplay_ended_at"] = endAt
		}
		if err := s.db.Model(&courseModels.DailyProgress{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
			return err
		}
	case courseModels.SessionKindCall:
		if exhausted {
			if err := s.db.Model(&models.UserLifecycle{}).
				Where("user_id = ?", session.UserID).
				Update("call_completed", true).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckTime reports elapsed and remaining seconds for the user's open
// session. A session found at or past its pool allowance is closed on the
// spot, with the duration clamped to what the pool had left, so a polling
// client never sees a spent session lingering open.
func (s *SessionService) CheckTime(userID uint) (*SessionState, error) {
	var session courseModels.SpeakingSession
	err := s.db.Where("user_id = ? AND end_time IS NULL", userID).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("Open session")
		}
		return nil, err
	}

	now := s.clock.Now()
	plan, err := activePlanType(s.db, userID, now)
	if err != nil {
		return nil, err
	}
	capSeconds := s.poolCap(session.Kind, plan)
	used, err := s.poolUsage(userID, session.Kind, session.Date)
	if err != nil {
		return nil, err
	}

	elapsed := int(now.Sub(session.StartTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := capSeconds - used - elapsed
	if remaining <= 0 {
		allowed := capSeconds - used
		if allowed < 0 {
			allowed = 0
		}
		endAt := session.StartTime.Add(time.Duration(allowed) * time.Second)
		if _, err := s.closeSession(&session, endAt, true); err != nil {
			return nil, err
		}
		return &SessionState{
			SessionID:        session.ID,
			RoomName:         session.RoomName,
			Kind:             session.Kind,
			Date:             session.Date,
			StartTime:        session.StartTime.UTC().Format(time.RFC3339),
			ElapsedSeconds:   elapsed,
			SecondsRemaining: 0,
			CapSeconds:       capSeconds,
			AutoCompleted:    true,
		}, nil
	}
	return &SessionState{
		SessionID:        session.ID,
		RoomName:         session.RoomName,
		Kind:             session.Kind,
		Date:             session.Date,
		StartTime:        session.StartTime.UTC().Format(time.RFC3339),
		ElapsedSeconds:   elapsed,
		SecondsRemaining: remaining,
		CapSeconds:       capSeconds,
	}, nil
}

// SweepExpiredSessions force-closes open sessions that ran past their pool
// cap plus a grace period. Called from the scheduler.
func (s *SessionService) SweepExpiredSessions() (int, error) {
	var open []courseModels.SpeakingSession
	if err := s.db.Where("end_time IS NULL").Find(&open).Error; err != nil {
		return 0, err
	}

	now := s.clock.Now()
	closed := 0
	for i := range open {
		session := &open[i]
		plan, err := activePlanType(s.db, session.UserID, now)
		if err != nil {
			log.Printf("[SWEEPER] Plan lookup failed for user %d: %v", session.UserID, err)
			continue
		}
		capSeconds := s.poolCap(session.Kind, plan)
		deadline := session.StartTime.Add(time.Duration(capSeconds)*time.Second + expiryGrace)
		if now.Before(deadline) {
			continue
		}
		if _, err := s.closeSession(session, now, true); err != nil {
			log.Printf("[SWEEPER] Failed to close session %d: %v", session.ID, err)
			continue
		}
		closed++
	}
	if closed > 0 {
		log.Printf("[SWEEPER] Auto-completed %d expired sessions", closed)
	}
	return closed, nil
}
