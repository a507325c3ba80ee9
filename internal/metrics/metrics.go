package metrics

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	usersRegistered metric.Int64Counter
	usersDeleted    metric.Int64Counter
	loginsSucceeded metric.Int64Counter
	loginsFailed    metric.Int64Counter
	feedbackCreated metric.Int64Counter
	feedbackUpdated metric.Int64Counter
	feedbackDeleted metric.Int64Counter
	profilesViewed  metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.usersRegistered, err = meter.Int64Counter(
		"feedback_service.users.registered",
		metric.WithDescription("Total number of users registered"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	m.usersDeleted, err = meter.Int64Counter(
		"feedback_service.users.deleted",
		metric.WithDescription("Total number of accounts deleted"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	m.loginsSucceeded, err = meter.Int64Counter(
		"feedback_service.logins.succeeded",
		metric.WithDescription("Total number of successful logins"),
		metric.WithUnit("{login}"),
	)
	if err != nil {
		return nil, err
	}

	m.loginsFailed, err = meter.Int64Counter(
		"feedback_service.logins.failed",
		metric.WithDescription("Total number of failed logins"),
		metric.WithUnit("{login}"),
	)
	if err != nil {
		return nil, err
	}

	m.feedbackCreated, err = meter.Int64Counter(
		"feedback_service.feedback.created",
		metric.WithDescription("Total number of feedback entries created"),
		metric.WithUnit("{feedback}"),
	)
	if err != nil {
		return nil, err
	}

	m.feedbackUpdated, err = meter.Int64Counter(
		"feedback_service.feedback.updated",
		metric.WithDescription("Total number of feedback entries updated"),
		metric.WithUnit("{feedback}"),
	)
	if err != nil {
		return nil, err
	}

	m.feedbackDeleted, err = meter.Int64Counter(
		"feedback_service.feedback.deleted",
		metric.WithDescription("Total number of feedback entries deleted"),
		metric.WithUnit("{feedback}"),
	)
	if err != nil {
		return nil, err
	}

	m.profilesViewed, err = meter.Int64Counter(
		"feedback_service.profiles.viewed",
		metric.WithDescription("Total number of profile views"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordUserRegistered(ctx context.Context) {
	if m != nil && m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1)
	}
}

func (m *Metrics) RecordUserDeleted(ctx context.Context) {
	if m != nil && m.usersDeleted != nil {
		m.usersDeleted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordLoginSucceeded(ctx context.Context) {
	if m != nil && m.loginsSucceeded != nil {
		m.loginsSucceeded.Add(ctx, 1)
	}
}

func (m *Metrics) RecordLoginFailed(ctx context.Context) {
	if m != nil && m.loginsFailed != nil {
		m.loginsFailed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordFeedbackCreated(ctx context.Context) {
	if m != nil && m.feedbackCreated != nil {
		m.feedbackCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordFeedbackUpdated(ctx context.Context) {
	if m != nil && m.feedbackUpdated != nil {
		m.feedbackUpdated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordFeedbackDeleted(ctx context.Context) {
	if m != nil && m.feedbackDeleted != nil {
		m.feedbackDeleted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordProfileViewed(ctx context.Context) {
	if m != nil && m.profilesViewed != nil {
		m.profilesViewed.Add(ctx, 1)
	}
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{}
}
