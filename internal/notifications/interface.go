package notifications

import "github.com/azure/mentions-sentiment-report/internal/models"

// NotificationInterface defines the contract for notification services
type NotificationInterface interface {
	SendReport(report *models.Report) error
}
