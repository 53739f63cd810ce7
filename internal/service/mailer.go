package service

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	q "github.com/Coco120903/batinos-garden-resort/internal/queue"
)

// Mailer sends transactional email over SMTP.  When no host is
// configured it logs the message instead of sending, which keeps
// local development working without a mail server.
type Mailer struct {
	Host string
	Port int
	User string
	Pass string
	From string

	// FrontendURL prefixes the verification and reset links.
	FrontendURL string
}

func NewMailer(host string, port int, user, pass, from, frontendURL string) *Mailer {
	return &Mailer{Host: host, Port: port, User: user, Pass: pass, From: from,
		FrontendURL: strings.TrimRight(frontendURL, "/")}
}

func (m *Mailer) send(to, subject, body string) error {
	if m.Host == "" {
		log.Printf("mailer: no SMTP host configured, skipping %q to %s", subject, to)
		return nil
	}
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg))
}

// SendVerification mails the email confirmation link.
func (m *Mailer) SendVerification(to, name, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.FrontendURL, token)
	body := fmt.Sprintf("Hi %s,\n\nPlease confirm your email address by opening the link below. The link expires in 30 minutes.\n\n%s\n", name, link)
	return m.send(to, "Confirm your email", body)
}

// SendPasswordReset mails the password reset link.
func (m *Mailer) SendPasswordReset(to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.FrontendURL, token)
	body := fmt.Sprintf("Hi %s,\n\nWe received a request to reset your password. Open the link below to choose a new one. The link expires in 30 minutes.\n\nIf you did not request this, you can ignore this email.\n\n%s\n", name, link)
	return m.send(to, "Reset your password", body)
}

// BookingApproved notifies the guest that their booking was approved.
func (m *Mailer) BookingApproved(ev q.BookingEvent) error {
	body := fmt.Sprintf("Hi %s,\n\nGood news! Your booking for %s from %s to %s has been approved.\n\nGuests: %d\nTotal: %d\n\nSee you soon!\n",
		ev.UserName, ev.ServiceName, ev.StartAt, ev.EndAt, ev.PaxCount, ev.TotalPrice)
	return m.send(ev.UserEmail, "Your booking is approved", body)
}

// BookingCancelled notifies the guest that their booking was cancelled.
func (m *Mailer) BookingCancelled(ev q.BookingEvent) error {
	body := fmt.Sprintf("Hi %s,\n\nYour booking for %s from %s to %s has been cancelled.\n", ev.UserName, ev.ServiceName, ev.StartAt, ev.EndAt)
	if ev.Reason != "" {
		body += fmt.Sprintf("\nReason: %s\n", ev.Reason)
	}
	body += "\nIf you have questions, reply to this email or reach us through the site chat.\n"
	return m.send(ev.UserEmail, "Your booking was cancelled", body)
}
