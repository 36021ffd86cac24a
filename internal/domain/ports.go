package domain

import "context"

// ExportParser turns a chat export archive into a Chat.
type ExportParser interface {
	Parse(exportPath string) (*Chat, error)
}

// Transcriber converts an audio file to text. language is a BCP-47-ish code
// ("it", "en", ...); empty means the collaborator auto-detects it.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// TranscriptionCache stores previously computed transcriptions keyed by
// media file identity. Get misses are not errors.
type TranscriptionCache interface {
	Get(media *MediaFile) (string, bool)
	Put(media *MediaFile, text string) error
}

// BlockLayout is the external page-layout collaborator for the
// bracket-markup dialect: it paginates an ordered list of typed content
// blocks into a file.
type BlockLayout interface {
	RenderBlocks(blocks []Block, outPath string) error
}

// MarkupLayout persists an assembled markup document produced by the
// block-structured dialect.
type MarkupLayout interface {
	RenderMarkup(ctx context.Context, markup, outPath string) error
}
