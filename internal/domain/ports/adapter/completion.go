package adapter

import (
	"context"

	"roast-panel-service/internal/domain/model"
)

// Segment is one typed chunk of a session message. Only "text" segments carry
// generated prose; other types (images, tool output) are skipped.
type Segment struct {
	Type string
	Text string
}

// SessionMessage is one entry in a conversation session's history.
type SessionMessage struct {
	ID       string
	Role     string // "user" | "assistant"
	Segments []Segment
}

// CompletionAdapter is the port for the asynchronous conversation service:
// open a session, post the prompt, start a generation job bound to a
// completion identity, observe its status, and read the reply back out of the
// session history.
type CompletionAdapter interface {
	CreateSession(ctx context.Context) (sessionID string, err error)
	PostMessage(ctx context.Context, sessionID, text string) (messageID string, err error)
	StartJob(ctx context.Context, sessionID, completionID string) (jobID string, err error)
	JobStatus(ctx context.Context, sessionID, jobID string) (model.JobStatus, error)

	// ListMessages returns the session history newest-first.
	ListMessages(ctx context.Context, sessionID string) ([]SessionMessage, error)
}
