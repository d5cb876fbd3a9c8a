// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"roast-panel-service/internal/domain/model"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	AdminKey  string `yaml:"admin_key"`  // key exchanged for an admin JWT
	JWTSecret string `yaml:"jwt_secret"` // HMAC secret for admin sessions
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type CompletionConfig struct {
	Endpoint        string        `yaml:"endpoint"` // e.g. https://sample.openai.azure.com
	APIKey          string        `yaml:"api_key"`
	APIVersion      string        `yaml:"api_version"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	PersonaDeadline time.Duration `yaml:"persona_deadline"` // spans job submit through hosting
	ConcurrentLimit int           `yaml:"concurrent_limit"` // max concurrent completion calls
	MaxPromptTokens int           `yaml:"max_prompt_tokens"`
	TokenizerModel  string        `yaml:"tokenizer_model"`
}

type SpeechConfig struct {
	APIKey          string        `yaml:"api_key"`
	BaseURL         string        `yaml:"base_url"`
	ModelID         string        `yaml:"model_id"`
	OutputDir       string        `yaml:"output_dir"`
	Stability       float64       `yaml:"stability"`
	SimilarityBoost float64       `yaml:"similarity_boost"`
	Style           float64       `yaml:"style"`
	SpeakerBoost    bool          `yaml:"speaker_boost"`
	RetainFor       time.Duration `yaml:"retain_for"` // janitor deletes older artifacts
}

type HostingConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

type TranscriptionConfig struct {
	Provider   string `yaml:"provider"` // openai | gemini
	OpenAIKey  string `yaml:"openai_key"`
	GeminiKey  string `yaml:"gemini_key"`
	Model      string `yaml:"model"`
	ScratchDir string `yaml:"scratch_dir"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Log           LogConfig           `yaml:"log"`
	Completion    CompletionConfig    `yaml:"completion"`
	Speech        SpeechConfig        `yaml:"speech"`
	Hosting       HostingConfig       `yaml:"hosting"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Redis         RedisConfig         `yaml:"redis"`
	Database      DatabaseConfig      `yaml:"database"`
	Panel         []model.Persona     `yaml:"panel"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Completion.APIVersion == "" {
		cfg.Completion.APIVersion = "2024-05-01-preview"
	}
	if cfg.Completion.PollInterval <= 0 {
		cfg.Completion.PollInterval = time.Second
	}
	if cfg.Completion.PersonaDeadline <= 0 {
		cfg.Completion.PersonaDeadline = 2 * time.Minute
	}
	if cfg.Completion.ConcurrentLimit <= 0 {
		cfg.Completion.ConcurrentLimit = 16
	}
	if cfg.Completion.MaxPromptTokens <= 0 {
		cfg.Completion.MaxPromptTokens = 4096
	}
	if cfg.Completion.TokenizerModel == "" {
		cfg.Completion.TokenizerModel = "gpt-4o"
	}
	if cfg.Speech.BaseURL == "" {
		cfg.Speech.BaseURL = "https://api.elevenlabs.io"
	}
	if cfg.Speech.ModelID == "" {
		cfg.Speech.ModelID = "eleven_multilingual_v2"
	}
	if cfg.Speech.OutputDir == "" {
		cfg.Speech.OutputDir = "./audio"
	}
	if cfg.Speech.Stability == 0 {
		cfg.Speech.Stability = 0.5
	}
	if cfg.Speech.SimilarityBoost == 0 {
		cfg.Speech.SimilarityBoost = 1
	}
	if cfg.Speech.Style == 0 {
		cfg.Speech.Style = 0.5
		cfg.Speech.SpeakerBoost = true
	}
	if cfg.Speech.RetainFor <= 0 {
		cfg.Speech.RetainFor = 24 * time.Hour
	}
	if cfg.Transcription.Provider == "" {
		cfg.Transcription.Provider = "openai"
	}
	if cfg.Transcription.Model == "" {
		cfg.Transcription.Model = "whisper-1"
	}
	if cfg.Transcription.ScratchDir == "" {
		cfg.Transcription.ScratchDir = os.TempDir()
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if len(cfg.Panel) == 0 {
		cfg.Panel = model.DefaultPanel()
	}

	// Minimal validation
	if cfg.Completion.Endpoint == "" {
		return nil, errors.New("completion.endpoint is required")
	}
	if cfg.Completion.APIKey == "" {
		return nil, errors.New("completion.api_key is required")
	}
	if cfg.Speech.APIKey == "" {
		return nil, errors.New("speech.api_key is required")
	}
	if cfg.Hosting.CloudName == "" || cfg.Hosting.APIKey == "" || cfg.Hosting.APISecret == "" {
		return nil, errors.New("hosting.cloud_name, hosting.api_key and hosting.api_secret are required")
	}
	for i, p := range cfg.Panel {
		if p.Name == "" || p.CompletionID == "" || p.VoiceID == "" {
			return nil, fmt.Errorf("panel[%d]: name, completion_id and voice_id are required", i)
		}
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
