// Package email renders and delivers follow-up notification emails.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	subjectReminderFmt = "Follow-up due: %s"
	subjectDigestFmt   = "Daily follow-up digest: %d leads need attention"
)

// ReminderData carries the content of a single follow-up reminder email.
type ReminderData struct {
	LeadName   string
	Status     string
	Urgency    string
	NextAction string
	DueAt      time.Time
	Reason     string
}

// DigestItem is one row of the daily digest.
type DigestItem struct {
	LeadName    string
	Status      string
	Urgency     string
	NextAction  string
	OverdueDays int
	Reason      string
}

// DigestData carries the content of the daily digest email.
type DigestData struct {
	Date  time.Time
	Items []DigestItem
}

// Sender delivers follow-up notifications. Implementations must be safe for
// concurrent use.
type Sender interface {
	SendFollowUpReminder(ctx context.Context, toEmail string, data ReminderData) error
	SendFollowUpDigest(ctx context.Context, toEmail string, data DigestData) error
}

// NoopSender discards all emails. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendFollowUpReminder(ctx context.Context, toEmail string, data ReminderData) error {
	return nil
}

func (NoopSender) SendFollowUpDigest(ctx context.Context, toEmail string, data DigestData) error {
	return nil
}

type baseEmailData struct {
	Title   string
	Heading string
}

type reminderEmailData struct {
	baseEmailData
	LeadName   string
	Status     string
	Urgency    string
	NextAction string
	DueDate    string
	Reason     string
}

type digestEmailData struct {
	baseEmailData
	Date  string
	Items []DigestItem
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
