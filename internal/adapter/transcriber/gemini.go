package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

// GeminiTranscriber transcribes audio files with a Gemini model, as an
// alternative to the Whisper backend.
type GeminiTranscriber struct {
	apiKey string
	model  string
}

func NewGemini(apiKey, model string) *GeminiTranscriber {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiTranscriber{apiKey: apiKey, model: model}
}

func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("reading audio file %s: %w", audioPath, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  t.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	prompt := "Transcribe this voice message verbatim. Return only the spoken text."
	if language != "" {
		prompt += " The audio language is " + language + "."
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, audioMIME(audioPath)),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

func audioMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".opus", ".ogg":
		return "audio/ogg"
	case ".m4a", ".aac":
		return "audio/aac"
	case ".wav":
		return "audio/wav"
	default:
		return "audio/mpeg"
	}
}
