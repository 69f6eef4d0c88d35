package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// API is the subset of the backend used for submission.
type API interface {
	CreateItinerary(ctx context.Context, payload *model.Payload) (json.RawMessage, error)
	AttachToCommunity(ctx context.Context, slug, itineraryID string) error
}

// FanOutFailure is one community attach that failed.
type FanOutFailure struct {
	Slug string
	Err  error
}

// Result is a successful publish.
type Result struct {
	PublishedID    string
	Attached       []string
	FanOutFailures []FanOutFailure
}

// Publisher creates itineraries and attaches them to communities.
type Publisher struct {
	api         API
	concurrency int
	logger      *zap.SugaredLogger
}

// NewPublisher creates a publisher. concurrency caps simultaneous attach requests.
func NewPublisher(api API, concurrency int, logger *zap.SugaredLogger) *Publisher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Publisher{api: api, concurrency: concurrency, logger: logger}
}

// Publish creates the itinerary and then attaches it to every community concurrently.
// Only the create call can fail the publish; attach failures are logged and reported
// in the result. A create response without an id yields an empty PublishedID.
func (p *Publisher) Publish(ctx context.Context, payload *model.Payload, communities []string) (*Result, error) {
	raw, err := p.api.CreateItinerary(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create itinerary: %w", err)
	}

	// The itinerary exists once create succeeds, so a missing id is still a publish.
	// Without an id nothing can be attached.
	id, err := ExtractPublishedID(raw)
	if err != nil {
		p.logger.Warnw("Create response carried no itinerary id", "error", err)
		res := &Result{}
		for _, slug := range communities {
			res.FanOutFailures = append(res.FanOutFailures, FanOutFailure{Slug: slug, Err: err})
		}
		return res, nil
	}

	res := &Result{PublishedID: id}
	if len(communities) == 0 {
		return res, nil
	}

	errs := make([]error, len(communities))
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)
	for i, slug := range communities {
		i, slug := i, slug
		g.Go(func() error {
			if err := p.api.AttachToCommunity(ctx, slug, id); err != nil {
				p.logger.Warnw("Failed to attach itinerary to community",
					"community", slug,
					"itinerary_id", id,
					"error", err,
				)
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, slug := range communities {
		if errs[i] != nil {
			res.FanOutFailures = append(res.FanOutFailures, FanOutFailure{Slug: slug, Err: errs[i]})
			continue
		}
		res.Attached = append(res.Attached, slug)
	}

	p.logger.Infow("Itinerary published",
		"itinerary_id", id,
		"attached", len(res.Attached),
		"fanout_failed", len(res.FanOutFailures),
	)
	return res, nil
}
