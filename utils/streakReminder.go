package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"lms/database"
	"lms/models"
	"lms/models/campaign"
	"lms/store"
)

// InitializeStreakReminderScheduler sets up the daily streak reminder job.
// The job only sends emails; streak state itself breaks lazily on the next
// completion event.
func InitializeStreakReminderScheduler() {
	log.Println("[STREAK-REMINDER] Initializing streak reminder scheduler...")

	c := cron.New()

	// Run daily at 18:00 UTC to catch users who have been idle all day
	c.AddFunc("0 18 * * *", func() {
		log.Println("[STREAK-REMINDER] Running daily streak reminder check...")
		ProcessStreakReminders()
	})

	c.Start()
	log.Println("[STREAK-REMINDER] Streak reminder scheduler started - runs daily at 18:00 UTC")
}

// ProcessStreakReminders emails every user whose active streak had its last
// activity yesterday, meaning it breaks unless they complete a campaign today.
func ProcessStreakReminders() {
	db := database.Database.Db
	clock := store.UTCClock{}

	yesterday, err := store.PrevDate(clock.Today())
	if err != nil {
		log.Printf("[STREAK-REMINDER] Error computing cutoff date: %v", err)
		return
	}

	var activeStreaks []campaign.UserStreak
	if err := db.Where("status = ? AND is_deleted = ?", campaign.StreakActive, false).Find(&activeStreaks).Error; err != nil {
		log.Printf("[STREAK-REMINDER] Error fetching active streaks: %v", err)
		return
	}

	reminded := 0
	for _, s := range activeStreaks {
		if s.LastActiveDate() != yesterday {
			continue
		}

		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", s.UserID, false).First(&user).Error; err != nil {
			log.Printf("[STREAK-REMINDER] Error fetching user %d: %v", s.UserID, err)
			continue
		}

		SendStreakReminderEmail(user.Email, user.Name, s.Length)
		reminded++
	}

	log.Printf("[STREAK-REMINDER] Sent %d streak reminders at %s", reminded, time.Now().UTC().Format(time.RFC3339))
}
