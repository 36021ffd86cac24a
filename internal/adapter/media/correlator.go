// Package media matches extracted files to messages and drives audio
// transcription through the cache.
package media

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/logger"
)

// extension table, suffix-matched case-insensitively
var kindByExt = map[string]domain.MediaKind{
	".opus": domain.MediaAudio,
	".m4a":  domain.MediaAudio,
	".mp3":  domain.MediaAudio,
	".wav":  domain.MediaAudio,
	".aac":  domain.MediaAudio,
	".jpg":  domain.MediaImage,
	".jpeg": domain.MediaImage,
	".png":  domain.MediaImage,
	".gif":  domain.MediaImage,
	".webp": domain.MediaImage,
	".pdf":  domain.MediaDocument,
	".doc":  domain.MediaDocument,
	".docx": domain.MediaDocument,
	".xls":  domain.MediaDocument,
	".xlsx": domain.MediaDocument,
}

type Correlator struct {
	cache       domain.TranscriptionCache
	transcriber domain.Transcriber
	language    string
	failureText string
	log         logger.Logger
}

// New builds a correlator. language is the transcription language preference
// (empty = auto-detect); failureText is attached verbatim when the
// transcription collaborator fails.
func New(c domain.TranscriptionCache, t domain.Transcriber, language, failureText string, log logger.Logger) *Correlator {
	return &Correlator{
		cache:       c,
		transcriber: t,
		language:    language,
		failureText: failureText,
		log:         log,
	}
}

// Enrich classifies the files in mediaDir, attaches at most one media file
// to each message by filename containment in the message text, and fills in
// transcriptions for audio attachments. Transcription failures never abort
// the pipeline.
func (c *Correlator) Enrich(ctx context.Context, messages []domain.Message, mediaDir string) error {
	index, err := ListMedia(mediaDir)
	if err != nil {
		return err
	}

	attached := make(map[string]bool, len(index))

	for i := range messages {
		for _, mf := range index {
			if attached[mf.Filename] {
				continue
			}
			if !strings.Contains(messages[i].Text, mf.Filename) {
				continue
			}

			messages[i].Media = mf
			attached[mf.Filename] = true

			if mf.Kind == domain.MediaAudio {
				messages[i].Transcription = c.transcribe(ctx, mf)
			}
			break
		}
	}

	return nil
}

func (c *Correlator) transcribe(ctx context.Context, mf *domain.MediaFile) string {
	if text, ok := c.cache.Get(mf); ok {
		c.log.Debug("cache hit for %s", mf.Filename)
		return text
	}

	c.log.Info("transcribing %s [%s]", mf.Filename, languageOrAuto(c.language))

	text, err := c.transcriber.Transcribe(ctx, mf.AbsolutePath, c.language)
	if err != nil {
		c.log.Warn("transcription failed for %s: %v", mf.Filename, err)
		return "[" + c.failureText + "]"
	}
	text = strings.TrimSpace(text)

	if err := c.cache.Put(mf, text); err != nil {
		c.log.Warn("failed to cache transcription for %s: %v", mf.Filename, err)
	}

	return text
}

func languageOrAuto(language string) string {
	if language == "" {
		return "auto-detect"
	}
	return language
}

// ListMedia classifies the files of a directory against the extension
// table. Candidates are ordered longest filename first (then lexically), so
// that when several filenames are substrings of one message text the most
// specific one wins deterministically.
func ListMedia(dir string) ([]*domain.MediaFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []*domain.MediaFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		kind, ok := Classify(e.Name())
		if !ok {
			continue
		}
		files = append(files, &domain.MediaFile{
			Filename:     e.Name(),
			AbsolutePath: filepath.Join(dir, e.Name()),
			Kind:         kind,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if len(files[i].Filename) != len(files[j].Filename) {
			return len(files[i].Filename) > len(files[j].Filename)
		}
		return files[i].Filename < files[j].Filename
	})

	return files, nil
}

// Classify maps a filename to a media kind by extension.
func Classify(filename string) (domain.MediaKind, bool) {
	kind, ok := kindByExt[strings.ToLower(filepath.Ext(filename))]
	return kind, ok
}
