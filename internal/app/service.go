// Package app orchestrates the chat processing pipeline.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/adapter/cache"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/adapter/classifier"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/adapter/media"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/adapter/template"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/config"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/lang"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/logger"
)

const ApplicationName = "chat-transcriber"

const cacheDirName = ".transcription_cache"

// ChatService runs the full pipeline: parse, filter, enrich, classify,
// render, persist.
type ChatService struct {
	parser      domain.ExportParser
	transcriber domain.Transcriber
	blocks      domain.BlockLayout
	markup      domain.MarkupLayout
	settings    config.Settings
	pack        lang.Pack
	log         logger.Logger
}

func NewChatService(
	parser domain.ExportParser,
	transcriber domain.Transcriber,
	blocks domain.BlockLayout,
	markup domain.MarkupLayout,
	settings config.Settings,
	pack lang.Pack,
	log logger.Logger,
) *ChatService {
	return &ChatService{
		parser:      parser,
		transcriber: transcriber,
		blocks:      blocks,
		markup:      markup,
		settings:    settings,
		pack:        pack,
		log:         log,
	}
}

// Process converts one export archive and returns the output path.
func (s *ChatService) Process(ctx context.Context, archivePath string, from, to *time.Time) (string, error) {
	chat, err := s.parser.Parse(archivePath)
	if err != nil {
		return "", fmt.Errorf("parsing export: %w", err)
	}

	// Filter before transcription to avoid unnecessary API calls.
	if from != nil || to != nil {
		chat = chat.Filter(from, to)
	}

	store, err := cache.New(filepath.Join(filepath.Dir(archivePath), cacheDirName))
	if err != nil {
		return "", fmt.Errorf("opening transcription cache: %w", err)
	}

	correlator := media.New(store, s.transcriber, s.settings.Language, s.pack.Messages.TranscriptionFailed, s.log)
	if err := correlator.Enrich(ctx, chat.Messages, chat.MediaDir); err != nil {
		return "", fmt.Errorf("enriching media: %w", err)
	}

	archiveBase := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	roles := classifier.Resolve(archiveBase, s.pack.Patterns.ArchivePrefix, s.settings.OwnerName, chat.Messages)

	renderCtx := template.NewContext(roles, s.pack, s.settings.ExcludeImages)

	outBase := strings.TrimSuffix(archivePath, filepath.Ext(archivePath)) + "_transcript"

	switch s.settings.Dialect {
	case config.DialectBlocks:
		return s.renderDocument(ctx, chat, renderCtx, outBase)
	default:
		return s.renderBlocks(chat, renderCtx, outBase)
	}
}

// renderBlocks produces a .docx via the per-message bracket dialect.
func (s *ChatService) renderBlocks(chat *domain.Chat, renderCtx *template.Context, outBase string) (string, error) {
	bracket := template.NewBracket(s.pack)

	messageTpl := s.settings.MessageFormat
	if messageTpl == "" {
		messageTpl = template.DefaultMessageFormat
	}
	systemTpl := s.settings.SystemFormat
	if systemTpl == "" {
		systemTpl = template.DefaultSystemFormat
	}

	blocks := []domain.Block{
		domain.TextBlock{Style: "title", Text: chat.Title},
		domain.SpacerBlock{Points: 24},
	}

	for i := range chat.Messages {
		msg := &chat.Messages[i]
		tpl := messageTpl
		if msg.IsSystem() {
			tpl = systemTpl
		}
		blocks = append(blocks, bracket.Render(tpl, msg, renderCtx)...)
	}

	if s.settings.ShowStats {
		stats := chat.Stats()
		blocks = append(blocks,
			domain.SpacerBlock{Points: 24},
			domain.TextBlock{
				Style: "system",
				Text: fmt.Sprintf("%s: %d | %s: %d | %s: %d",
					s.pack.UI.LabelMessages, stats.Messages,
					s.pack.UI.LabelMedia, stats.Media,
					s.pack.UI.LabelTranscript, stats.Transcriptions),
			},
		)
	}
	if s.settings.FooterText != "" {
		blocks = append(blocks, domain.TextBlock{Style: "system", Text: s.settings.FooterText})
	}

	outPath := outBase + ".docx"
	if err := s.blocks.RenderBlocks(blocks, outPath); err != nil {
		return "", err
	}

	s.log.Info("wrote %s", outPath)
	return outPath, nil
}

// renderDocument produces a whole document via the block-structured dialect.
func (s *ChatService) renderDocument(ctx context.Context, chat *domain.Chat, renderCtx *template.Context, outBase string) (string, error) {
	src := template.DefaultDocumentTemplate
	if s.settings.TemplateFile != "" {
		data, err := os.ReadFile(s.settings.TemplateFile)
		if err != nil {
			return "", fmt.Errorf("reading template: %w", err)
		}
		src = string(data)
	}

	doc := template.NewDocument(template.NewBracket(s.pack), s.log)

	data := template.DocumentData{
		Title:        chat.Title,
		GeneratedAt:  time.Now().Format("02/01/2006 15:04"),
		Stats:        chat.Stats(),
		ShowStats:    s.settings.ShowStats,
		FooterText:   s.settings.FooterText,
		LanguageCode: s.pack.Code,
		Labels:       s.pack.UI,
	}

	markup, err := doc.Render(src, chat.Messages, data, renderCtx)
	if err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}

	outPath := outBase + ".html"
	if s.settings.HTMLConverter != "" {
		outPath = outBase + ".pdf"
	}

	if err := s.markup.RenderMarkup(ctx, markup, outPath); err != nil {
		return "", err
	}

	s.log.Info("wrote %s", outPath)
	return outPath, nil
}
