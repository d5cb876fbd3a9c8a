package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"roast-panel-service/internal/config"
	"roast-panel-service/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.SpeechSynthesizer = (*ElevenLabsAdapter)(nil)

// ElevenLabsAdapter renders text to an mp3 artifact under the configured
// output dir. Every call writes to a fresh uuid-named file.
type ElevenLabsAdapter struct {
	apiKey   string
	base     string
	modelID  string
	outDir   string
	settings voiceSettings
	client   *http.Client
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

func NewElevenLabsAdapter(cfg config.SpeechConfig) (*ElevenLabsAdapter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("elevenlabs api key empty")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &ElevenLabsAdapter{
		apiKey:  cfg.APIKey,
		base:    cfg.BaseURL,
		modelID: cfg.ModelID,
		outDir:  cfg.OutputDir,
		settings: voiceSettings{
			Stability:       cfg.Stability,
			SimilarityBoost: cfg.SimilarityBoost,
			Style:           cfg.Style,
			UseSpeakerBoost: cfg.SpeakerBoost,
		},
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (e *ElevenLabsAdapter) Synthesize(ctx context.Context, text, voiceID string) (string, error) {
	if voiceID == "" {
		return "", errors.New("voice id empty")
	}
	reqBody := struct {
		Text          string        `json:"text"`
		ModelID       string        `json:"model_id"`
		VoiceSettings voiceSettings `json:"voice_settings"`
	}{Text: text, ModelID: e.modelID, VoiceSettings: e.settings}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base+"/v1/text-to-speech/"+voiceID, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("elevenlabs http %d", resp.StatusCode)
	}

	path := filepath.Join(e.outDir, uuid.NewString()+".mp3")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
