package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/verdania/internal/database"
	"github.com/example/verdania/internal/fog"
)

// Default window during which fog reminders may be sent
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier interface for delivering fog reminders
type Notifier interface {
	SendFogReport(userID int64, critical, total int) error
}

// Scheduler manages the periodic fog check that pushes "N tiles need
// review" reminders
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly sweep over users whose reminder hour matches
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)

	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders finds users due a reminder this hour and reports how
// much of their map has fogged over
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()

	startHour := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	userRepo := database.NewUserRepository()
	users, err := userRepo.GetUsersForNotification(currentHour)
	if err != nil {
		log.Printf("Error getting users for notification: %v", err)
		return
	}

	now := time.Now()
	for _, user := range users {
		critical, total, err := s.fogReport(user.ID, now)
		if err != nil {
			log.Printf("Error checking fog for user %d: %v", user.ID, err)
			continue
		}
		if total == 0 {
			continue
		}
		if err := s.notifier.SendFogReport(user.ID, critical, total); err != nil {
			log.Printf("Error sending reminder to user %d: %v", user.ID, err)
		}
	}
}

// RunManualCheck forces a fog check for a specific user
func (s *Scheduler) RunManualCheck(userID int64) error {
	critical, total, err := s.fogReport(userID, time.Now())
	if err != nil {
		return err
	}
	if total == 0 {
		return nil
	}
	return s.notifier.SendFogReport(userID, critical, total)
}

// fogReport counts the user's due tiles by severity
func (s *Scheduler) fogReport(userID int64, now time.Time) (critical, total int, err error) {
	reviews := fog.NewReviewScheduler(database.NewMasteryRepository(userID))
	due, err := reviews.ListDue(now)
	if err != nil {
		return 0, 0, err
	}
	for _, u := range due {
		if u.Tier == fog.TierCritical {
			critical++
		}
	}
	return critical, len(due), nil
}

// envHour reads an hour-of-day override from the environment
func envHour(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
