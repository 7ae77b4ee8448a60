package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/azure/mentions-sentiment-report/internal/config"
	"github.com/azure/mentions-sentiment-report/internal/fallback"
	"github.com/azure/mentions-sentiment-report/internal/models"
	"github.com/azure/mentions-sentiment-report/internal/notifications"
	"github.com/azure/mentions-sentiment-report/internal/report"
	"github.com/azure/mentions-sentiment-report/internal/sentiment"
	"github.com/azure/mentions-sentiment-report/internal/sources"
	"github.com/azure/mentions-sentiment-report/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	DataSourceAPI      = "api"
	DataSourceFallback = "fallback"
)

// Service runs the fetch, classify, aggregate and export pipeline
type Service struct {
	config              *config.Config
	source              sources.Source
	storage             storage.StorageInterface
	archive             storage.StorageInterface
	notificationService notifications.NotificationInterface
	out                 io.Writer
	now                 func() time.Time

	runMu   sync.Mutex
	mu      sync.RWMutex
	metrics *Metrics
}

// Metrics holds the outcome of the most recent run
type Metrics struct {
	Runs               int            `json:"runs"`
	TotalMentions      int            `json:"total_mentions"`
	LastRun            time.Time      `json:"last_run"`
	LastRunDuration    string         `json:"last_run_duration"`
	DataSource         string         `json:"data_source"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	NetSentiment       float64        `json:"net_sentiment"`
	Trend              string         `json:"trend"`
	ErrorCount         int            `json:"error_count"`
}

// Option customizes a Service
type Option func(*Service)

// WithArchive copies every CSV export to a secondary store
func WithArchive(archive storage.StorageInterface) Option {
	return func(s *Service) { s.archive = archive }
}

// WithNotifications delivers every report through the given notifier
func WithNotifications(n notifications.NotificationInterface) Option {
	return func(s *Service) { s.notificationService = n }
}

// WithOutput sets where the console report is printed
func WithOutput(w io.Writer) Option {
	return func(s *Service) { s.out = w }
}

// NewService creates a new report service. The CSV export is written to store.
func NewService(cfg *config.Config, source sources.Source, store storage.StorageInterface, opts ...Option) *Service {
	service := &Service{
		config:  cfg,
		source:  source,
		storage: store,
		out:     os.Stdout,
		now:     time.Now,
		metrics: &Metrics{
			SentimentBreakdown: make(map[string]int),
		},
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// RunReport performs one complete run. Fetch failures degrade to fallback data;
// only a failure to write the CSV export is returned as an error.
func (s *Service) RunReport(ctx context.Context) (*models.Report, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := s.now()
	logrus.Infof("Starting mentions analysis for query '%s'", s.config.SearchQuery)

	daily, dataSource, mentionCount := s.collect(ctx)

	rep := &models.Report{
		GeneratedAt: start,
		Query:       s.config.SearchQuery,
		DataSource:  dataSource,
		Mentions:    mentionCount,
		Daily:       daily,
		Summary:     report.Summarize(daily),
	}
	rep.Text = report.Render(s.config.ReportTitle, daily)

	fmt.Fprint(s.out, rep.Text)

	errorCount := 0
	if len(daily) > 0 {
		if err := s.export(rep); err != nil {
			logrus.Errorf("Failed to export report: %v", err)
			s.updateMetrics(rep, s.now().Sub(start), 1)
			return rep, err
		}
		fmt.Fprintf(s.out, "\n💾 Data exported to '%s'\n", rep.OutputFile)

		if s.archive != nil {
			if err := s.archiveExport(rep); err != nil {
				logrus.Errorf("Failed to archive report: %v", err)
				errorCount++
			}
		}
	}

	if s.notificationService != nil {
		if err := s.notificationService.SendReport(rep); err != nil {
			logrus.Errorf("Failed to send report: %v", err)
			errorCount++
		}
	}

	s.updateMetrics(rep, s.now().Sub(start), errorCount)
	logrus.Infof("Mentions analysis completed in %v using %s data", s.now().Sub(start), dataSource)

	return rep, nil
}

// collect returns the daily stats for this run, falling back to synthetic data
// whenever the search yields nothing usable
func (s *Service) collect(ctx context.Context) (models.DailyStats, string, int) {
	if !s.source.IsEnabled() {
		logrus.Warnf("%s source disabled - missing credentials. Using simulated data.", s.source.GetName())
		return s.fallbackStats()
	}

	mentions, err := s.source.FetchMentions(ctx, s.config.SearchQuery, s.config.MaxRetries)
	if err != nil {
		logrus.Errorf("Could not reach the %s API (%v). Using simulated data.", s.source.GetName(), err)
		return s.fallbackStats()
	}

	if len(mentions) == 0 {
		logrus.Info("No mentions found. Using simulated data.")
		return s.fallbackStats()
	}

	classify(mentions)
	logrus.Infof("Classified %d mentions from %s", len(mentions), s.source.GetName())

	return report.Aggregate(mentions), DataSourceAPI, len(mentions)
}

func (s *Service) fallbackStats() (models.DailyStats, string, int) {
	logrus.Info("Generating simulated data for demonstration")
	daily := fallback.Generate()
	return daily, DataSourceFallback, report.Totals(daily).Total()
}

func classify(mentions []models.Mention) {
	for i := range mentions {
		mentions[i].Sentiment = sentiment.Classify(mentions[i].Text)
	}
}

func (s *Service) export(rep *models.Report) error {
	data, err := report.EncodeCSV(rep.Daily)
	if err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}

	if err := s.storage.Store(s.config.OutputFile, data); err != nil {
		return err
	}

	rep.OutputFile = s.config.OutputFile
	return nil
}

func (s *Service) archiveExport(rep *models.Report) error {
	data, err := report.EncodeCSV(rep.Daily)
	if err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}
	return s.archive.Store(filepath.Base(s.config.OutputFile), data)
}

func (s *Service) updateMetrics(rep *models.Report, duration time.Duration, errorCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.Runs++
	s.metrics.TotalMentions = rep.Mentions
	s.metrics.LastRun = rep.GeneratedAt
	s.metrics.LastRunDuration = duration.String()
	s.metrics.DataSource = rep.DataSource
	s.metrics.ErrorCount = errorCount

	totals := report.Totals(rep.Daily)
	s.metrics.SentimentBreakdown = map[string]int{
		string(models.Positive): totals.Positive,
		string(models.Negative): totals.Negative,
		string(models.Neutral):  totals.Neutral,
	}

	s.metrics.NetSentiment = 0
	s.metrics.Trend = ""
	if rep.Summary != nil {
		s.metrics.NetSentiment = rep.Summary.NetSentiment
		s.metrics.Trend = rep.Summary.Trend
	}
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
