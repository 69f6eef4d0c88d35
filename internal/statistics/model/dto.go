// Package model provides data transfer objects for statistics module.
package model

// Event is a countable publishing event.
type Event string

// Publishing events.
const (
	EventSessionCreated    Event = "sessions_created"
	EventSubmission        Event = "submissions"
	EventPublished         Event = "published"
	EventValidationBlocked Event = "validation_blocked"
	EventPublishFailed     Event = "publish_failed"
	EventUploadSucceeded   Event = "uploads_succeeded"
	EventUploadFailed      Event = "uploads_failed"
	EventFanOutFailed      Event = "fanout_failed"
)

// PublishingStatistics represents counters since process start.
type PublishingStatistics struct {
	SessionsCreated   int64 `json:"sessions_created"`
	ActiveSessions    int   `json:"active_sessions"`
	Submissions       int64 `json:"submissions"`
	Published         int64 `json:"published"`
	ValidationBlocked int64 `json:"validation_blocked"`
	PublishFailed     int64 `json:"publish_failed"`
	UploadsSucceeded  int64 `json:"uploads_succeeded"`
	UploadsFailed     int64 `json:"uploads_failed"`
	FanOutFailed      int64 `json:"fanout_failed"`
}

// PublishingStatisticsResponse represents response for publishing statistics.
type PublishingStatisticsResponse struct {
	Statistics PublishingStatistics `json:"statistics"`
}
