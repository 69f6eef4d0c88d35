// Package service provides business logic layer for statistics module.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/festy23/trip_publisher/internal/statistics/model"
	"github.com/festy23/trip_publisher/internal/statistics/repository"
)

// ActiveCounter reports the number of live wizard sessions.
type ActiveCounter interface {
	Active() int
}

// Service defines the interface for statistics business logic operations.
type Service interface {
	// Record counts n occurrences of event.
	Record(ctx context.Context, event model.Event, n int)

	// GetPublishingStatistics returns publishing counters.
	GetPublishingStatistics(ctx context.Context) (*model.PublishingStatisticsResponse, error)
}

type service struct {
	repo   repository.Repository
	active ActiveCounter
	logger *zap.SugaredLogger
}

// New creates a new statistics service instance. active may be nil.
func New(repo repository.Repository, active ActiveCounter, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		active: active,
		logger: logger,
	}
}

// Record counts n occurrences of event.
func (s *service) Record(ctx context.Context, event model.Event, n int) {
	s.repo.Add(ctx, event, int64(n))
}

// GetPublishingStatistics returns publishing counters.
func (s *service) GetPublishingStatistics(ctx context.Context) (*model.PublishingStatisticsResponse, error) {
	s.logger.Debugw("GetPublishingStatistics called")

	counts := s.repo.Counts(ctx)
	stats := model.PublishingStatistics{
		SessionsCreated:   counts[model.EventSessionCreated],
		Submissions:       counts[model.EventSubmission],
		Published:         counts[model.EventPublished],
		ValidationBlocked: counts[model.EventValidationBlocked],
		PublishFailed:     counts[model.EventPublishFailed],
		UploadsSucceeded:  counts[model.EventUploadSucceeded],
		UploadsFailed:     counts[model.EventUploadFailed],
		FanOutFailed:      counts[model.EventFanOutFailed],
	}
	if s.active != nil {
		stats.ActiveSessions = s.active.Active()
	}

	s.logger.Infow("GetPublishingStatistics completed", "published", stats.Published)
	return &model.PublishingStatisticsResponse{
		Statistics: stats,
	}, nil
}
