package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"roast-panel-service/internal/domain"
	"roast-panel-service/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.TranscriptCache = (*TranscriptCache)(nil)

// TranscriptCache keys transcripts by a hash of the video URL so a
// re-submitted video skips the transcription engine.
type TranscriptCache struct {
	client *Client
	ttl    time.Duration
}

func NewTranscriptCache(client *Client, ttl time.Duration) *TranscriptCache {
	return &TranscriptCache{client: client, ttl: ttl}
}

func (c *TranscriptCache) Get(ctx context.Context, videoURL string) (string, error) {
	v, err := c.client.cli.Get(ctx, key(videoURL)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	return v, err
}

func (c *TranscriptCache) Store(ctx context.Context, videoURL, transcript string) error {
	return c.client.cli.Set(ctx, key(videoURL), transcript, c.ttl).Err()
}

func key(videoURL string) string {
	sum := sha256.Sum256([]byte(videoURL))
	return "transcript:" + hex.EncodeToString(sum[:])
}
