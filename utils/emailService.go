package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"talktivity/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Talktivity <%s>\r\n", from)
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

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2B6D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B6D; line-height: 1.6; }
			.content h2 { color: #1A2B6D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #F4A940; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #F4A940; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>TALKTIVITY</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Talktivity. All rights reserved.<br>
				Practice a little every day and your streak will thank you.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Talktivity"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>Talktivity</strong>! Your personalized English speaking journey starts here.</p>
		<p>Complete your onboarding and the intro call to unlock your 12-week course.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Streak Reminder
func SendStreakReminderEmail(email, name string, streakDays int) {
	subject := "Don't break your streak!"
	streakLine := "Start a new streak today with just 5 minutes of speaking practice."
	if streakDays > 0 {
		streakLine = fmt.Sprintf("Your <strong>%d-day streak</strong> is on the line. Five minutes of speaking keeps it alive.", streakDays)
	}
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You haven't finished today's activities yet.</p>
		<div class="info-box">%s</div>
		<a href="#" class="btn">Practice Now</a>
	`, name, streakLine)

	go SendEmail([]string{email}, subject, getEmailTemplate("Keep It Going", body))
}

// 3. Weekly Exam Reminder
func SendExamDayEmail(email, name string, week int) {
	subject := fmt.Sprintf("Week %d exam day", week)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Today is your <strong>week %d speaking exam</strong>.</p>
		<p>Finish your speaking practice first, then take the exam while it's fresh.</p>
	`, name, week)

	go SendEmail([]string{email}, subject, getEmailTemplate("Exam Day", body))
}

// 4. Course Completed
func SendCourseCompletedEmail(email, name string) {
	subject := "You finished the course!"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have completed the full 3-month speaking course.</p>
		<p>Keep practicing. Your roleplay minutes are still available.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Course Complete", body))
}
