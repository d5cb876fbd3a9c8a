package redis

import (
	"context"

	"roast-panel-service/internal/domain"
	"roast-panel-service/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.TranscriptCache = (*noopCache)(nil)

type noopCache struct{}

// NewNoopTranscriptCache is used when no redis is configured: every lookup
// misses and stores are dropped.
func NewNoopTranscriptCache() repository.TranscriptCache { return noopCache{} }

func (noopCache) Get(ctx context.Context, videoURL string) (string, error) {
	return "", domain.ErrNotFound
}

func (noopCache) Store(ctx context.Context, videoURL, transcript string) error { return nil }
