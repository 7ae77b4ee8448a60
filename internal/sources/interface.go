package sources

import (
	"context"

	"github.com/azure/mentions-sentiment-report/internal/models"
)

// Source interface defines the contract for mention data sources
type Source interface {
	GetName() string
	FetchMentions(ctx context.Context, query string, maxRetries int) ([]models.Mention, error)
	IsEnabled() bool
}
