package events

import (
	"github.com/sirupsen/logrus"
	"github.com/vendora/backend/internal/models"
)

// AnalyticsSubscriber maintains the popular-query counters from search
// completion events.
type AnalyticsSubscriber struct {
	popularQueries models.PopularQueryRepository
	logger         *logrus.Logger
}

func NewAnalyticsSubscriber(popularQueries models.PopularQueryRepository, logger *logrus.Logger) *AnalyticsSubscriber {
	return &AnalyticsSubscriber{
		popularQueries: popularQueries,
		logger:         logger,
	}
}

// Handle implements the Bus handler contract. Analytics writes are best
// effort; failures are logged and dropped.
func (s *AnalyticsSubscriber) Handle(event SearchCompleted) {
	if err := s.popularQueries.IncrementCount(event.Query); err != nil {
		s.logger.WithError(err).Warn("Failed to update popular queries")
		return
	}

	if err := s.popularQueries.UpdateStats(event.Query, float64(event.ResultsCount), event.ResponseTimeMs); err != nil {
		s.logger.WithError(err).Warn("Failed to update query stats")
	}
}
