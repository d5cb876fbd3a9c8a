// File: internal/usecase/generation_runner.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"roast-panel-service/internal/domain"
	"roast-panel-service/internal/domain/ports/adapter"
	"roast-panel-service/internal/infra/logging"
	"roast-panel-service/internal/infra/metrics"
)

// Generator produces one reply for a given completion identity.
type Generator interface {
	Generate(ctx context.Context, completionID, prompt string) (string, error)
}

// Compile-time check
var _ Generator = (*GenerationRunner)(nil)

// GenerationRunner drives the completion service's asynchronous protocol:
// session -> message -> job -> poll -> reply. One run owns one session; a
// session is never shared across personas or requests.
type GenerationRunner struct {
	completion adapter.CompletionAdapter
	trimmer    *PromptTrimmer
	interval   time.Duration
	log        *zerolog.Logger
}

func NewGenerationRunner(completion adapter.CompletionAdapter, trimmer *PromptTrimmer, pollInterval time.Duration, logger *zerolog.Logger) *GenerationRunner {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &GenerationRunner{completion: completion, trimmer: trimmer, interval: pollInterval, log: logger}
}

func (r *GenerationRunner) Generate(ctx context.Context, completionID, prompt string) (string, error) {
	prompt = r.trimmer.Trim(prompt)

	sessionID, err := r.completion.CreateSession(ctx)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	ctx = logging.WithSessID(ctx, sessionID)

	if _, err := r.completion.PostMessage(ctx, sessionID, prompt); err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}

	jobID, err := r.completion.StartJob(ctx, sessionID, completionID)
	if err != nil {
		return "", fmt.Errorf("start job: %w", err)
	}
	logging.With(ctx, r.log).Debug().Str("job_id", jobID).Msg("generation job started")

	if err := r.await(ctx, sessionID, jobID); err != nil {
		return "", err
	}

	msgs, err := r.completion.ListMessages(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}
	return replyFrom(msgs)
}

// await polls job status at a fixed interval until the job completes. The
// service offers no hard upper bound on job duration, so cancellation comes
// from the caller's context deadline.
func (r *GenerationRunner) await(ctx context.Context, sessionID, jobID string) error {
	for {
		status, err := r.completion.JobStatus(ctx, sessionID, jobID)
		metrics.IncJobPoll()
		if err != nil {
			return fmt.Errorf("job status: %w", err)
		}
		if status.Succeeded() {
			return nil
		}
		if status.Terminal() {
			return fmt.Errorf("%w: status %s", domain.ErrJobFailed, status)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}
}

// replyFrom selects the generated text: the most recent assistant-authored
// message (history is newest-first), and within it the first text segment.
func replyFrom(msgs []adapter.SessionMessage) (string, error) {
	for _, m := range msgs {
		if m.Role != "assistant" {
			continue
		}
		for _, seg := range m.Segments {
			if seg.Type == "text" && seg.Text != "" {
				return seg.Text, nil
			}
		}
		break
	}
	return "", domain.ErrNoOutput
}
