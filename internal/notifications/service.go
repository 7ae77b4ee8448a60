package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/azure/mentions-sentiment-report/internal/config"
	"github.com/azure/mentions-sentiment-report/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service delivers finished reports to Teams and/or e-mail
type Service struct {
	config *config.Config
	client *resty.Client
	dialer func() gomail.SendCloser
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message card
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle string      `json:"activityTitle,omitempty"`
	ActivityText  string      `json:"activityText,omitempty"`
	Facts         []TeamsFact `json:"facts,omitempty"`
	Markdown      bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Enabled reports whether at least one channel is configured
func (s *Service) Enabled() bool {
	return s.config.TeamsWebhookURL != "" || s.config.NotificationEmail != ""
}

// SendReport sends a report via configured notification channels
func (s *Service) SendReport(report *models.Report) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(report); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent report to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent report via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(report *models.Report) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(buildTeamsMessage(report)).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func buildTeamsMessage(report *models.Report) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Mentions Sentiment Report - %s", report.Query),
		Text:    fmt.Sprintf("%d days analysed from %s data", len(report.Daily), report.DataSource),
	}

	if report.Summary == nil {
		message.Text = "No data available for analysis."
		return message
	}

	totals := report.Summary.Totals
	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Summary",
		Facts: []TeamsFact{
			{Name: "Positive", Value: fmt.Sprintf("%d", totals.Positive)},
			{Name: "Negative", Value: fmt.Sprintf("%d", totals.Negative)},
			{Name: "Neutral", Value: fmt.Sprintf("%d", totals.Neutral)},
			{Name: "Total Mentions", Value: fmt.Sprintf("%d", totals.Total())},
			{Name: "Net Sentiment Score", Value: fmt.Sprintf("%+.1f%%", report.Summary.NetSentiment)},
			{Name: "Trend", Value: report.Summary.Trend},
			{Name: "Generated", Value: report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		},
		Markdown: true,
	})

	var days []string
	for _, date := range report.Daily.Dates() {
		c := report.Daily[date]
		days = append(days, fmt.Sprintf("**%s** - %d positive, %d negative, %d neutral", date, c.Positive, c.Negative, c.Neutral))
	}
	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Daily Breakdown",
		ActivityText:  strings.Join(days, "\n\n"),
		Markdown:      true,
	})

	return message
}

func (s *Service) sendEmail(report *models.Report) error {
	subject := fmt.Sprintf("Mentions Sentiment Report - %s", report.Query)
	if report.Summary != nil {
		subject = fmt.Sprintf("%s (%s)", subject, report.Summary.Trend)
	}

	htmlBody, err := buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", report.Text)
	m.AddAlternative("text/html", htmlBody)

	if s.dialer != nil {
		sender := s.dialer()
		defer sender.Close()
		return gomail.Send(sender, m)
	}

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const emailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Mentions Sentiment Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #0078d4; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        table { border-collapse: collapse; }
        td, th { border: 1px solid #ddd; padding: 6px 12px; text-align: right; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Mentions Sentiment Report</h1>
        <p>{{.Query}} - generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}} from {{.DataSource}} data</p>
    </div>
    {{if .Summary}}
    <div class="summary">
        <h2>Summary</h2>
        <p><strong>Total Mentions:</strong> {{.Summary.Totals.Total}}</p>
        <p><strong>Net Sentiment Score:</strong> {{printf "%+.1f" .Summary.NetSentiment}}%</p>
        <p><strong>Trend:</strong> {{.Summary.Trend}}</p>
    </div>
    <table>
        <tr><th>Date</th><th>Positive</th><th>Negative</th><th>Neutral</th></tr>
        {{range $date := .Daily.Dates}}{{with index $.Daily $date}}
        <tr><td>{{$date}}</td><td>{{.Positive}}</td><td>{{.Negative}}</td><td>{{.Neutral}}</td></tr>
        {{end}}{{end}}
    </table>
    {{else}}
    <p>No data available for analysis.</p>
    {{end}}
    <hr>
    <p><small>This report was generated automatically.</small></p>
</body>
</html>
`

var emailHTML = template.Must(template.New("email").Parse(emailTemplate))

func buildEmailHTML(report *models.Report) (string, error) {
	var buf bytes.Buffer
	if err := emailHTML.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}
