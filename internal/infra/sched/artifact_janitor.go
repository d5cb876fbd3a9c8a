package sched

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// ArtifactJanitor periodically sweeps the synthesis output dir, deleting
// artifacts past their retention window. Uploaded audio lives on the hosting
// service; the local copy is only needed for the upload itself.
type ArtifactJanitor struct {
	dir      string
	retain   time.Duration
	interval time.Duration
	log      *zerolog.Logger
}

func NewArtifactJanitor(dir string, retain, interval time.Duration, logger *zerolog.Logger) *ArtifactJanitor {
	janLog := logger.With().Str("component", "ArtifactJanitor").Logger()
	if interval <= 0 {
		interval = time.Hour
	}
	return &ArtifactJanitor{dir: dir, retain: retain, interval: interval, log: &janLog}
}

func (j *ArtifactJanitor) Run(ctx context.Context) error {
	j.log.Info().Str("dir", j.dir).Msg("Starting artifact janitor")
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Info().Msg("Stopping artifact janitor")
			return ctx.Err()
		case <-ticker.C:
			n, err := j.Sweep()
			if err != nil {
				j.log.Error().Err(err).Msg("janitor sweep error")
			}
			if n > 0 {
				j.log.Info().Int("count", n).Msg("stale artifacts removed")
			}
		}
	}
}

// Sweep removes artifacts older than the retention window and returns how
// many were deleted.
func (j *ArtifactJanitor) Sweep() (int, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-j.retain)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(j.dir, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
