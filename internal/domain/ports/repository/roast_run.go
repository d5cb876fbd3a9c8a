package repository

import (
	"context"

	"roast-panel-service/internal/domain/model"
)

// RoastRunRepository records finished roast runs for the admin surface.
// Writes are best-effort; a failing repository must never fail a request.
type RoastRunRepository interface {
	Save(ctx context.Context, run *model.RoastRun) error
	ListRecent(ctx context.Context, limit int) ([]*model.RoastRun, error)
}

// TranscriptCache remembers video transcriptions so a re-submitted video is
// not transcribed twice.
type TranscriptCache interface {
	Get(ctx context.Context, videoURL string) (string, error)
	Store(ctx context.Context, videoURL, transcript string) error
}
