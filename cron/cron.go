package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gowash/carwash-api/db"
	"github.com/gowash/carwash-api/models"
	"github.com/gowash/carwash-api/utils"
)

// StartCronJobs initializes and starts the cron scheduler for wash reminders
func StartCronJobs() {
	c := cron.New()
	// Run every minute to catch washes starting in about an hour
	_, err := c.AddFunc("* * * * *", sendWashReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for wash reminders")
}

// sendWashReminders emails customers whose confirmed wash starts in the
// next hour. Appointments store the day and an HH:MM wall time separately,
// so the window check happens here after combining them.
func sendWashReminders() {
	now := time.Now().UTC()
	windowStart := now.Add(55 * time.Minute)
	windowEnd := now.Add(65 * time.Minute)

	startOfDay, _ := utils.DayWindow(now)

	var appointments []models.Appointment
	err := db.DB.Preload("Customer").Preload("Service").Preload("Provider").
		Where("status = ?", models.StatusConfirmed).
		Where("service_date >= ? AND service_date < ?", startOfDay, startOfDay.AddDate(0, 0, 2)).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		startsAt, err := utils.CombineDateClock(appointment.ServiceDate, appointment.StartTime)
		if err != nil {
			log.Printf("Appointment %d has a bad start time %q: %v", appointment.ID, appointment.StartTime, err)
			continue
		}
		if startsAt.Before(windowStart) || startsAt.After(windowEnd) {
			continue
		}

		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Customer.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	subject := fmt.Sprintf("Reminder: %s in one hour", appointment.Service.Name)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your car wash is coming up in about an hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s - %s</li>
		</ul>
		<p>Please have your car accessible. If you need to cancel, do it from the app as soon as possible.</p>
	`, appointment.Customer.Name, appointment.Service.Name, appointment.Provider.Name,
		appointment.ServiceDate.Format("2006-01-02"),
		appointment.StartTime, appointment.EndTime)

	return utils.SendEmail(appointment.Customer.Email, subject, body)
}
