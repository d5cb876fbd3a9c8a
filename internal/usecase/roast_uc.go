// File: internal/usecase/roast_uc.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"roast-panel-service/internal/domain"
	"roast-panel-service/internal/domain/model"
	"roast-panel-service/internal/domain/ports/adapter"
	"roast-panel-service/internal/domain/ports/repository"
	"roast-panel-service/internal/infra/logging"
	"roast-panel-service/internal/infra/metrics"
)

// Compile-time check
var _ RoastUseCase = (*roastUC)(nil)

type RoastUseCase interface {
	// ProduceRoasts runs the full panel over one input. The returned slice is
	// ordered by the persona catalog and contains only the personas whose
	// pipeline fully succeeded. An error is returned only for request-level
	// failures (transcription); per-persona failures are swallowed.
	ProduceRoasts(ctx context.Context, req model.RoastRequest) ([]model.RoastResult, error)
}

type roastUC struct {
	panel       []model.Persona
	gen         Generator
	speech      adapter.SpeechSynthesizer
	host        adapter.ArtifactHost
	transcriber adapter.Transcriber
	cache       repository.TranscriptCache
	runs        repository.RoastRunRepository
	deadline    time.Duration
	log         *zerolog.Logger
}

func NewRoastUseCase(
	panel []model.Persona,
	gen Generator,
	speech adapter.SpeechSynthesizer,
	host adapter.ArtifactHost,
	transcriber adapter.Transcriber,
	cache repository.TranscriptCache,
	runs repository.RoastRunRepository,
	personaDeadline time.Duration,
	logger *zerolog.Logger,
) *roastUC {
	if personaDeadline <= 0 {
		personaDeadline = 2 * time.Minute
	}
	return &roastUC{
		panel:       panel,
		gen:         gen,
		speech:      speech,
		host:        host,
		transcriber: transcriber,
		cache:       cache,
		runs:        runs,
		deadline:    personaDeadline,
		log:         logger,
	}
}

func (u *roastUC) ProduceRoasts(ctx context.Context, req model.RoastRequest) ([]model.RoastResult, error) {
	defer logging.TraceDuration(logging.With(ctx, u.log), "RoastUC.ProduceRoasts")()

	if req.Empty() {
		metrics.IncRoastRequest("empty")
		return []model.RoastResult{}, nil
	}

	source := model.RoastSourceTranscript
	text := req.Transcript
	if req.VideoURL != "" {
		source = model.RoastSourceVideo
		resolved, err := u.resolveTranscript(ctx, req.VideoURL)
		if err != nil {
			// No persona can proceed without text; fail the whole request.
			metrics.IncRoastRequest(string(source))
			return nil, fmt.Errorf("%w: %v", domain.ErrTranscription, err)
		}
		text = resolved
	}
	metrics.IncRoastRequest(string(source))

	// Fan out one pipeline per persona. Slots keep catalog order no matter
	// which pipelines finish first; a failed persona leaves its slot nil.
	slots := make([]*model.RoastResult, len(u.panel))
	var wg sync.WaitGroup
	for i, p := range u.panel {
		wg.Add(1)
		go func(i int, p model.Persona) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(logging.WithPersona(ctx, p.Name), u.deadline)
			defer cancel()

			res, err := u.roastOne(pctx, p, text)
			if err != nil {
				metrics.IncPersonaOutcome(p.Name, false)
				logging.With(pctx, u.log).Warn().Err(err).Msg("persona pipeline failed")
				return
			}
			metrics.IncPersonaOutcome(p.Name, true)
			slots[i] = res
		}(i, p)
	}
	wg.Wait()

	results := make([]model.RoastResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}

	u.recordRun(ctx, source, text, results)
	return results, nil
}

// roastOne is the single-persona pipeline: generate -> synthesize -> host.
// Any failure aborts only this persona.
func (u *roastUC) roastOne(ctx context.Context, p model.Persona, text string) (*model.RoastResult, error) {
	start := time.Now()
	roast, err := u.gen.Generate(ctx, p.CompletionID, text)
	metrics.ObserveStage("generation", float64(time.Since(start)/time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	start = time.Now()
	path, err := u.speech.Synthesize(ctx, roast, p.VoiceID)
	metrics.ObserveStage("synthesis", float64(time.Since(start)/time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	start = time.Now()
	audioURL, err := u.host.Upload(ctx, path)
	metrics.ObserveStage("hosting", float64(time.Since(start)/time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	return &model.RoastResult{
		Panel:     p.Name,
		Roast:     roast,
		AudioURL:  audioURL,
		Thumbnail: p.Thumbnail,
	}, nil
}

// resolveTranscript transcribes the video exactly once per request, going
// through the cache so a re-submitted video skips the transcription engine.
func (u *roastUC) resolveTranscript(ctx context.Context, videoURL string) (string, error) {
	if cached, err := u.cache.Get(ctx, videoURL); err == nil && cached != "" {
		logging.With(ctx, u.log).Debug().Msg("transcript cache hit")
		return cached, nil
	}

	start := time.Now()
	text, err := u.transcriber.Transcribe(ctx, videoURL)
	metrics.ObserveStage("transcription", float64(time.Since(start)/time.Millisecond))
	if err != nil {
		return "", err
	}
	if err := u.cache.Store(ctx, videoURL, text); err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Msg("transcript cache store failed")
	}
	return text, nil
}

// recordRun persists the outcome for the admin surface. Best-effort: the
// response is already decided by the time this runs.
func (u *roastUC) recordRun(ctx context.Context, source model.RoastRunSource, text string, results []model.RoastResult) {
	run := &model.RoastRun{
		ID:         uuid.NewString(),
		Source:     source,
		Transcript: text,
		PanelSize:  len(u.panel),
		Succeeded:  len(results),
		Results:    results,
		CreatedAt:  time.Now(),
	}
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.runs.Save(saveCtx, run); err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Str("run_id", run.ID).Msg("run history save failed")
	}
}
