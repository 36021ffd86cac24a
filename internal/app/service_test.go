package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/config"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/lang"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/logger"
)

type fakeParser struct {
	chat *domain.Chat
}

func (p *fakeParser) Parse(string) (*domain.Chat, error) {
	return p.chat, nil
}

type fakeTranscriber struct{}

func (fakeTranscriber) Transcribe(context.Context, string, string) (string, error) {
	return "hello there", nil
}

type captureBlocks struct {
	blocks  []domain.Block
	outPath string
}

func (c *captureBlocks) RenderBlocks(blocks []domain.Block, outPath string) error {
	c.blocks = blocks
	c.outPath = outPath
	return nil
}

type captureMarkup struct {
	markup  string
	outPath string
}

func (c *captureMarkup) RenderMarkup(_ context.Context, markup, outPath string) error {
	c.markup = markup
	c.outPath = outPath
	return nil
}

func testChat(t *testing.T) *domain.Chat {
	t.Helper()
	return &domain.Chat{
		Title:    "WhatsApp Chat with Anna",
		MediaDir: t.TempDir(),
		Messages: []domain.Message{
			{Date: "1/2/24", Time: "10:00", Sender: "Anna", Text: "good morning"},
			{Date: "1/2/24", Time: "10:05", Sender: "Ben", Text: "hi"},
			{Date: "1/2/24", Time: "10:06", Text: "Messages are end-to-end encrypted"},
		},
	}
}

func testSettings(dialect string) config.Settings {
	return config.Settings{
		Dialect:     dialect,
		Transcriber: config.TranscriberOpenAI,
		ShowStats:   true,
		LogLevel:    "error",
	}
}

func newTestService(t *testing.T, dialect string) (*ChatService, *captureBlocks, *captureMarkup) {
	t.Helper()
	blocks := &captureBlocks{}
	markup := &captureMarkup{}
	svc := NewChatService(
		&fakeParser{chat: testChat(t)},
		fakeTranscriber{},
		blocks, markup,
		testSettings(dialect),
		lang.Default(),
		logger.New("error"),
	)
	return svc, blocks, markup
}

func TestProcessBracketDialectWritesDocx(t *testing.T) {
	svc, blocks, _ := newTestService(t, config.DialectBracket)
	archive := filepath.Join(t.TempDir(), "WhatsApp Chat with Anna.zip")

	out, err := svc.Process(context.Background(), archive, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(archive), "WhatsApp Chat with Anna_transcript.docx"), out)
	assert.Equal(t, out, blocks.outPath)
	require.NotEmpty(t, blocks.blocks)

	title, ok := blocks.blocks[0].(domain.TextBlock)
	require.True(t, ok)
	assert.Equal(t, "title", title.Style)
	assert.Equal(t, "WhatsApp Chat with Anna", title.Text)

	var texts []string
	for _, b := range blocks.blocks {
		if tb, ok := b.(domain.TextBlock); ok {
			texts = append(texts, tb.Text)
		}
	}
	assert.Contains(t, texts, "good morning")
	assert.Contains(t, texts, "Messages are end-to-end encrypted")
}

func TestProcessBracketDialectAppendsStats(t *testing.T) {
	svc, blocks, _ := newTestService(t, config.DialectBracket)

	_, err := svc.Process(context.Background(), filepath.Join(t.TempDir(), "chat.zip"), nil, nil)
	require.NoError(t, err)

	last, ok := blocks.blocks[len(blocks.blocks)-1].(domain.TextBlock)
	require.True(t, ok)
	assert.Equal(t, "system", last.Style)
	assert.Contains(t, last.Text, "3")
}

func TestProcessBlocksDialectWritesHTML(t *testing.T) {
	svc, _, markup := newTestService(t, config.DialectBlocks)
	archive := filepath.Join(t.TempDir(), "chat.zip")

	out, err := svc.Process(context.Background(), archive, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(archive), "chat_transcript.html"), out)
	assert.Equal(t, out, markup.outPath)
	assert.Contains(t, markup.markup, "good morning")
	assert.Contains(t, markup.markup, "WhatsApp Chat with Anna")
	assert.Contains(t, markup.markup, "Messages: 3")
}

func TestProcessBlocksDialectConverterSwitchesToPDF(t *testing.T) {
	blocks := &captureBlocks{}
	markup := &captureMarkup{}
	settings := testSettings(config.DialectBlocks)
	settings.HTMLConverter = "wkhtmltopdf"

	svc := NewChatService(&fakeParser{chat: testChat(t)}, fakeTranscriber{}, blocks, markup, settings, lang.Default(), logger.New("error"))

	out, err := svc.Process(context.Background(), filepath.Join(t.TempDir(), "chat.zip"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ".pdf", filepath.Ext(out))
}

func TestProcessRejectsBadCustomTemplate(t *testing.T) {
	blocks := &captureBlocks{}
	markup := &captureMarkup{}
	settings := testSettings(config.DialectBlocks)

	dir := t.TempDir()
	tplPath := filepath.Join(dir, "custom.html")
	require.NoError(t, os.WriteFile(tplPath, []byte("<html>{{chat_title}}</html>"), 0o600))
	settings.TemplateFile = tplPath

	svc := NewChatService(&fakeParser{chat: testChat(t)}, fakeTranscriber{}, blocks, markup, settings, lang.Default(), logger.New("error"))

	_, err := svc.Process(context.Background(), filepath.Join(dir, "chat.zip"), nil, nil)
	assert.ErrorContains(t, err, "#each messages")
}
