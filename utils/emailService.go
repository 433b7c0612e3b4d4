package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"lms/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Campaign Learning <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all notification emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1A2B4C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #1A2B4C; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.badge { display: inline-block; padding: 8px 16px; background-color: #E8A33D; color: #FFFFFF; border-radius: 4px; font-weight: bold; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">You are receiving this because of your learning activity.</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendCampaignCompletedEmail congratulates a learner on finishing a campaign
func SendCampaignCompletedEmail(email, name, campaignTitle string) {
	subject := "Campaign completed - nice work!"
	body := fmt.Sprintf(`
		<h2>Congratulations %s!</h2>
		<p>You completed <strong>%s</strong>. Every module is done.</p>
		<p>Keep your learning streak going by completing a campaign tomorrow.</p>`, name, campaignTitle)

	go SendEmail([]string{email}, subject, getEmailTemplate("Campaign Completed", body))
}

// SendStreakMilestoneEmail celebrates crossed streak milestones
func SendStreakMilestoneEmail(email, name string, thresholds []int, length int) {
	subject := fmt.Sprintf("%d-day learning streak!", length)
	parts := make([]string, len(thresholds))
	for i, t := range thresholds {
		parts[i] = fmt.Sprintf("%d days", t)
	}
	body := fmt.Sprintf(`
		<h2>Amazing, %s!</h2>
		<p>Your learning streak just hit <span class="badge">%s</span>.</p>
		<p>You have learned on %d consecutive days. Keep it up!</p>`, name, strings.Join(parts, ", "), length)

	go SendEmail([]string{email}, subject, getEmailTemplate("Streak Milestone", body))
}

// SendStreakReminderEmail nudges a learner whose streak ends today if idle
func SendStreakReminderEmail(email, name string, length int) {
	subject := "Your learning streak ends today!"
	body := fmt.Sprintf(`
		<h2>Don't break the chain, %s!</h2>
		<p>Your <strong>%d-day</strong> learning streak will break unless you complete a campaign today.</p>
		<p>A few minutes is all it takes.</p>`, name, length)

	go SendEmail([]string{email}, subject, getEmailTemplate("Streak Reminder", body))
}
