// File: internal/usecase/generation_runner_test.go
package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"roast-panel-service/internal/domain"
	"roast-panel-service/internal/domain/model"
	"roast-panel-service/internal/domain/ports/adapter"
)

// fakeCompletion scripts the job status sequence and the session history.
type fakeCompletion struct {
	mu          sync.Mutex
	statuses    []model.JobStatus // consumed one per JobStatus call; last repeats
	statusCalls int
	messages    []adapter.SessionMessage
	posted      []string
	createErr   error
	startErr    error
}

func (f *fakeCompletion) CreateSession(ctx context.Context) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return "thread_1", nil
}

func (f *fakeCompletion) PostMessage(ctx context.Context, sessionID, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, text)
	return "msg_1", nil
}

func (f *fakeCompletion) StartJob(ctx context.Context, sessionID, completionID string) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	return "run_1", nil
}

func (f *fakeCompletion) JobStatus(ctx context.Context, sessionID, jobID string) (model.JobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.statusCalls
	f.statusCalls++
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	return f.statuses[i], nil
}

func (f *fakeCompletion) ListMessages(ctx context.Context, sessionID string) ([]adapter.SessionMessage, error) {
	return f.messages, nil
}

func (f *fakeCompletion) statusQueryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls
}

func newRunner(c adapter.CompletionAdapter) *GenerationRunner {
	logger := zerolog.Nop()
	return NewGenerationRunner(c, NewPromptTrimmer("gpt-4o", 4096), time.Millisecond, &logger)
}

func assistantReply(text string) []adapter.SessionMessage {
	return []adapter.SessionMessage{
		{ID: "msg_2", Role: "assistant", Segments: []adapter.Segment{{Type: "text", Text: text}}},
		{ID: "msg_1", Role: "user", Segments: []adapter.Segment{{Type: "text", Text: "input"}}},
	}
}

func TestGenerate_PollsUntilCompleted(t *testing.T) {
	fc := &fakeCompletion{
		statuses: []model.JobStatus{
			model.JobStatusQueued,
			model.JobStatusInProgress,
			model.JobStatusInProgress,
			model.JobStatusCompleted,
		},
		messages: assistantReply("done deal"),
	}
	got, err := newRunner(fc).Generate(context.Background(), "asst_x", "roast me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done deal" {
		t.Fatalf("want reply from final state, got %q", got)
	}
	if n := fc.statusQueryCount(); n != 4 {
		t.Fatalf("want 4 status queries for queued,running,running,completed; got %d", n)
	}
}

func TestGenerate_FailedStatusIsJobFailure(t *testing.T) {
	fc := &fakeCompletion{
		statuses: []model.JobStatus{model.JobStatusQueued, model.JobStatusFailed},
		messages: assistantReply("never read"),
	}
	_, err := newRunner(fc).Generate(context.Background(), "asst_x", "roast me")
	if !errors.Is(err, domain.ErrJobFailed) {
		t.Fatalf("want ErrJobFailed, got %v", err)
	}
}

func TestGenerate_DeadlineCancelsPolling(t *testing.T) {
	fc := &fakeCompletion{statuses: []model.JobStatus{model.JobStatusQueued}}
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	_, err := newRunner(fc).Generate(ctx, "asst_x", "roast me")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}
}

func TestGenerate_PostsPromptToSession(t *testing.T) {
	fc := &fakeCompletion{
		statuses: []model.JobStatus{model.JobStatusCompleted},
		messages: assistantReply("ok"),
	}
	if _, err := newRunner(fc).Generate(context.Background(), "asst_x", "the statement"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.posted) != 1 || fc.posted[0] != "the statement" {
		t.Fatalf("want prompt posted once, got %v", fc.posted)
	}
}

func TestGenerate_SessionCreateErrorSurfaces(t *testing.T) {
	fc := &fakeCompletion{createErr: errors.New("boom")}
	if _, err := newRunner(fc).Generate(context.Background(), "asst_x", "x"); err == nil {
		t.Fatal("want error from session creation")
	}
}

func TestReplyFrom_PicksLatestAssistantFirstTextSegment(t *testing.T) {
	msgs := []adapter.SessionMessage{
		{Role: "user", Segments: []adapter.Segment{{Type: "text", Text: "latest user turn"}}},
		{Role: "assistant", Segments: []adapter.Segment{
			{Type: "image_file"},
			{Type: "text", Text: "the fresh roast"},
			{Type: "text", Text: "a later segment"},
		}},
		{Role: "assistant", Segments: []adapter.Segment{{Type: "text", Text: "an older roast"}}},
	}
	got, err := replyFrom(msgs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "the fresh roast" {
		t.Fatalf("want first text segment of most recent assistant message, got %q", got)
	}
}

func TestReplyFrom_NoTextSegmentIsNoOutput(t *testing.T) {
	cases := map[string][]adapter.SessionMessage{
		"empty history":   {},
		"only user turns": {{Role: "user", Segments: []adapter.Segment{{Type: "text", Text: "hi"}}}},
		"assistant without text": {
			{Role: "assistant", Segments: []adapter.Segment{{Type: "image_file"}}},
		},
	}
	for name, msgs := range cases {
		if _, err := replyFrom(msgs); !errors.Is(err, domain.ErrNoOutput) {
			t.Fatalf("%s: want ErrNoOutput, got %v", name, err)
		}
	}
}
