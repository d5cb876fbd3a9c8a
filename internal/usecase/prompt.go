// File: internal/usecase/prompt.go
package usecase

import (
	"github.com/pkoukk/tiktoken-go"
)

// PromptTrimmer caps the text sent to the completion service. Video
// transcripts can run far past what an assistant prompt should carry, so the
// resolved text is cut to a token budget before the session message is posted.
type PromptTrimmer struct {
	enc       *tiktoken.Tiktoken
	maxTokens int
}

// NewPromptTrimmer builds a trimmer for the given tokenizer model. When the
// encoding cannot be loaded (unknown model, offline BPE fetch) the trimmer
// degrades to a rune-count cut so the pipeline keeps working.
func NewPromptTrimmer(model string, maxTokens int) *PromptTrimmer {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc = nil
	}
	return &PromptTrimmer{enc: enc, maxTokens: maxTokens}
}

func (t *PromptTrimmer) Trim(text string) string {
	if t == nil {
		return text
	}
	if t.enc == nil {
		// Rune fallback: ~4 chars per token is the usual rule of thumb.
		limit := t.maxTokens * 4
		runes := []rune(text)
		if len(runes) <= limit {
			return text
		}
		return string(runes[:limit])
	}
	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) <= t.maxTokens {
		return text
	}
	return t.enc.Decode(tokens[:t.maxTokens])
}
