package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
completion:
  endpoint: https://sample.openai.azure.com
  api_key: ck
speech:
  api_key: sk
hosting:
  cloud_name: demo
  api_key: hk
  api_secret: hs
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalYAML), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Fatalf("want default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Fatalf("bad log defaults: %+v", cfg.Log)
	}
	if cfg.Completion.PollInterval != time.Second {
		t.Fatalf("want 1s poll interval, got %v", cfg.Completion.PollInterval)
	}
	if cfg.Completion.PersonaDeadline != 2*time.Minute {
		t.Fatalf("want 2m persona deadline, got %v", cfg.Completion.PersonaDeadline)
	}
	if cfg.Completion.APIVersion == "" {
		t.Fatal("want default api version")
	}
	if cfg.Speech.ModelID != "eleven_multilingual_v2" {
		t.Fatalf("bad speech model default %q", cfg.Speech.ModelID)
	}
	if cfg.Transcription.Provider != "openai" || cfg.Transcription.Model != "whisper-1" {
		t.Fatalf("bad transcription defaults: %+v", cfg.Transcription)
	}
	if len(cfg.Panel) != 4 {
		t.Fatalf("want built-in panel of 4, got %d", len(cfg.Panel))
	}
}

func TestLoadConfig_PanelOverride(t *testing.T) {
	body := minimalYAML + `
panel:
  - name: SOLO
    completion_id: asst_1
    voice_id: v1
    thumbnail: https://img/solo.png
`
	cfg, err := LoadConfig(writeConfig(t, body), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Panel) != 1 || cfg.Panel[0].Name != "SOLO" {
		t.Fatalf("panel override not applied: %+v", cfg.Panel)
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	cases := map[string]string{
		"missing completion endpoint": `
completion:
  api_key: ck
speech:
  api_key: sk
hosting:
  cloud_name: demo
  api_key: hk
  api_secret: hs
`,
		"missing speech key": `
completion:
  endpoint: https://e
  api_key: ck
hosting:
  cloud_name: demo
  api_key: hk
  api_secret: hs
`,
		"incomplete persona": minimalYAML + `
panel:
  - name: BROKEN
`,
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body), false); err == nil {
			t.Fatalf("%s: want validation error", name)
		}
	}
}

func TestLoadConfig_DevFlagCarried(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalYAML), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Runtime.Dev {
		t.Fatal("dev flag not carried into runtime config")
	}
}
