package notifications

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/azure/mentions-sentiment-report/internal/config"
	"github.com/azure/mentions-sentiment-report/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

// MockSender is a mock implementation of gomail.SendCloser
type MockSender struct {
	mock.Mock
	body strings.Builder
}

func (m *MockSender) Send(from string, to []string, msg io.WriterTo) error {
	msg.WriteTo(&m.body)
	args := m.Called(from, to)
	return args.Error(0)
}

func (m *MockSender) Close() error {
	args := m.Called()
	return args.Error(0)
}

func sampleReport() *models.Report {
	daily := models.DailyStats{
		"2025-10-01": {Positive: 15, Negative: 8, Neutral: 12},
		"2025-10-02": {Positive: 1, Negative: 1, Neutral: 2},
	}
	return &models.Report{
		GeneratedAt: time.Date(2025, time.October, 3, 9, 0, 0, 0, time.UTC),
		Query:       "@timbrasil -is:retweet",
		DataSource:  "api",
		Mentions:    39,
		Daily:       daily,
		Summary: &models.Summary{
			Totals:       models.Counts{Positive: 16, Negative: 9, Neutral: 14},
			NetSentiment: 17.948,
			Trend:        "Positive",
		},
		Text: "report body",
	}
}

func TestBuildTeamsMessage(t *testing.T) {
	message := buildTeamsMessage(sampleReport())

	assert.Equal(t, "MessageCard", message.Type)
	assert.Contains(t, message.Title, "@timbrasil")
	require.Len(t, message.Sections, 2)

	facts := map[string]string{}
	for _, fact := range message.Sections[0].Facts {
		facts[fact.Name] = fact.Value
	}
	assert.Equal(t, "16", facts["Positive"])
	assert.Equal(t, "39", facts["Total Mentions"])
	assert.Equal(t, "+17.9%", facts["Net Sentiment Score"])
	assert.Equal(t, "Positive", facts["Trend"])

	breakdown := message.Sections[1].ActivityText
	assert.Less(t, strings.Index(breakdown, "2025-10-01"), strings.Index(breakdown, "2025-10-02"))
}

func TestBuildTeamsMessage_NoData(t *testing.T) {
	report := sampleReport()
	report.Daily = models.DailyStats{}
	report.Summary = nil

	message := buildTeamsMessage(report)

	assert.Equal(t, "No data available for analysis.", message.Text)
	assert.Empty(t, message.Sections)
}

func TestService_SendReport_Teams(t *testing.T) {
	var received TeamsMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := NewService(&config.Config{TeamsWebhookURL: server.URL})

	require.NoError(t, service.SendReport(sampleReport()))
	assert.Equal(t, "MessageCard", received.Type)
	assert.True(t, service.Enabled())
}

func TestService_SendReport_TeamsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad payload"))
	}))
	defer server.Close()

	service := NewService(&config.Config{TeamsWebhookURL: server.URL})

	err := service.SendReport(sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Teams webhook returned status 400")
}

func TestService_SendReport_Email(t *testing.T) {
	sender := &MockSender{}
	sender.On("Send", "bot@example.com", []string{"ops@example.com"}).Return(nil)
	sender.On("Close").Return(nil)

	service := NewService(&config.Config{
		NotificationEmail: "ops@example.com",
		SMTPUsername:      "bot@example.com",
	})
	service.dialer = func() gomail.SendCloser { return sender }

	require.NoError(t, service.SendReport(sampleReport()))
	sender.AssertExpectations(t)
	assert.Contains(t, sender.body.String(), "Mentions Sentiment Report")
}

func TestService_Disabled(t *testing.T) {
	service := NewService(&config.Config{})

	assert.False(t, service.Enabled())
	assert.NoError(t, service.SendReport(sampleReport()))
}

func TestBuildEmailHTML(t *testing.T) {
	html, err := buildEmailHTML(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, html, "<td>2025-10-01</td><td>15</td><td>8</td><td>12</td>")
	assert.Contains(t, html, "+17.9%")
	assert.Contains(t, html, "Positive")
}
