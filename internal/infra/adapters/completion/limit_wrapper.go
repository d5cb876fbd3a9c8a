package completion

import (
	"context"

	"roast-panel-service/internal/domain/model"
	"roast-panel-service/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.CompletionAdapter = (*limitedCompletion)(nil)

type limitedCompletion struct {
	inner adapter.CompletionAdapter
	sem   chan struct{}
}

// NewLimitedCompletion caps concurrent calls against the completion service.
// Status polls are left unthrottled: a waiting poll holding a slot would
// starve the very jobs it is waiting on.
func NewLimitedCompletion(inner adapter.CompletionAdapter, maxConcurrent int) adapter.CompletionAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedCompletion{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedCompletion) CreateSession(ctx context.Context) (string, error) {
	l.sem <- struct{}{}
	defer func() { <-l.sem }()
	return l.inner.CreateSession(ctx)
}

func (l *limitedCompletion) PostMessage(ctx context.Context, sessionID, text string) (string, error) {
	l.sem <- struct{}{}
	defer func() { <-l.sem }()
	return l.inner.PostMessage(ctx, sessionID, text)
}

func (l *limitedCompletion) StartJob(ctx context.Context, sessionID, completionID string) (string, error) {
	l.sem <- struct{}{}
	defer func() { <-l.sem }()
	return l.inner.StartJob(ctx, sessionID, completionID)
}

func (l *limitedCompletion) JobStatus(ctx context.Context, sessionID, jobID string) (model.JobStatus, error) {
	return l.inner.JobStatus(ctx, sessionID, jobID)
}

func (l *limitedCompletion) ListMessages(ctx context.Context, sessionID string) ([]adapter.SessionMessage, error) {
	l.sem <- struct{}{}
	defer func() { <-l.sem }()
	return l.inner.ListMessages(ctx, sessionID)
}
