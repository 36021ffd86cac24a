package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/lang"
)

func testContext(excludeImages bool) *Context {
	return NewContext(domain.ParticipantRoles{}, lang.Default(), excludeImages)
}

func TestRenderStyledText(t *testing.T) {
	b := NewBracket(lang.Default())
	msg := &domain.Message{Text: "hi"}

	blocks := b.Render("[style:message]{text}[/style]", msg, testContext(false))

	require.Len(t, blocks, 1)
	assert.Equal(t, domain.TextBlock{Style: "message", Text: "hi"}, blocks[0])
}

func TestRenderEmptyTextYieldsNoBlock(t *testing.T) {
	b := NewBracket(lang.Default())
	msg := &domain.Message{Text: ""}

	blocks := b.Render("[style:message]{text}[/style]", msg, testContext(false))
	assert.Empty(t, blocks)
}

func TestRenderVariables(t *testing.T) {
	b := NewBracket(lang.Default())
	msg := &domain.Message{Date: "1/1/24", Time: "10:00", Sender: "Anna", Text: "ciao"}

	blocks := b.Render("[style:sender]{sender} • {date} {time}[/style]", msg, testContext(false))

	require.Len(t, blocks, 1)
	assert.Equal(t, domain.TextBlock{Style: "sender", Text: "Anna • 1/1/24 10:00"}, blocks[0])
}

func TestRenderStripsAttachmentReference(t *testing.T) {
	b := NewBracket(lang.Default())
	msg := &domain.Message{Text: "IMG-20240101-WA0001.jpg (file attached)"}

	blocks := b.Render("[style:message]{text}[/style]", msg, testContext(false))
	assert.Empty(t, blocks)
}

func TestRenderSpacer(t *testing.T) {
	b := NewBracket(lang.Default())

	blocks := b.Render("[spacer:12]", &domain.Message{}, testContext(false))

	require.Len(t, blocks, 1)
	assert.Equal(t, domain.SpacerBlock{Points: 12}, blocks[0])
}

func TestRenderMalformedSpacerIsIgnored(t *testing.T) {
	b := NewBracket(lang.Default())
	blocks := b.Render("[spacer:lots]", &domain.Message{}, testContext(false))
	assert.Empty(t, blocks)
}

func TestRenderImageDirective(t *testing.T) {
	img := &domain.MediaFile{Filename: "IMG-1.jpg", AbsolutePath: "/tmp/x/IMG-1.jpg", Kind: domain.MediaImage}

	tests := []struct {
		name    string
		msg     domain.Message
		exclude bool
		want    []domain.Block
	}{
		{
			name: "image embeds",
			msg:  domain.Message{Media: img},
			want: []domain.Block{domain.ImageBlock{Path: "/tmp/x/IMG-1.jpg", Filename: "IMG-1.jpg"}},
		},
		{
			name:    "privacy exclusion emits placeholder",
			msg:     domain.Message{Media: img},
			exclude: true,
			want:    []domain.Block{domain.TextBlock{Style: "media", Text: "IMAGE: IMG-1.jpg (excluded for privacy)"}},
		},
		{
			name: "no media emits nothing",
			msg:  domain.Message{},
			want: nil,
		},
		{
			name: "non-image media emits nothing",
			msg:  domain.Message{Media: &domain.MediaFile{Filename: "a.pdf", Kind: domain.MediaDocument}},
			want: nil,
		},
	}

	b := NewBracket(lang.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Render("[image]", &tt.msg, testContext(tt.exclude))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderMediaDirective(t *testing.T) {
	b := NewBracket(lang.Default())
	msg := &domain.Message{Media: &domain.MediaFile{Filename: "contract.pdf", Kind: domain.MediaDocument}}

	blocks := b.Render("[media]", msg, testContext(false))

	require.Len(t, blocks, 1)
	assert.Equal(t, domain.TextBlock{Style: "media", Text: "DOCUMENT: contract.pdf"}, blocks[0])
}

func TestRenderMediaDirectiveSkipsImages(t *testing.T) {
	b := NewBracket(lang.Default())
	msg := &domain.Message{Media: &domain.MediaFile{Filename: "IMG-1.jpg", Kind: domain.MediaImage}}

	assert.Empty(t, b.Render("[media]", msg, testContext(false)))
}

func TestRenderTranscriptionDirective(t *testing.T) {
	b := NewBracket(lang.Default())

	withT := &domain.Message{Transcription: "see you tomorrow"}
	blocks := b.Render("[transcription]", withT, testContext(false))
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.TextBlock{Style: "transcription", Text: "Audio: see you tomorrow"}, blocks[0])

	withoutT := &domain.Message{}
	assert.Empty(t, b.Render("[transcription]", withoutT, testContext(false)))
}

func TestRenderTranscriptionVariableEmitsNothingWhenAbsent(t *testing.T) {
	b := NewBracket(lang.Default())
	blocks := b.Render("[style:message]{transcription}[/style]", &domain.Message{}, testContext(false))
	assert.Empty(t, blocks)
}

func TestRenderLineBreakJoinsBuffer(t *testing.T) {
	b := NewBracket(lang.Default())
	msg := &domain.Message{Sender: "Anna", Text: "hello"}

	blocks := b.Render("[style:message]{sender}[br]{text}[/style]", msg, testContext(false))

	require.Len(t, blocks, 1)
	assert.Equal(t, domain.TextBlock{Style: "message", Text: "Anna\nhello"}, blocks[0])
}

func TestRenderUnknownTokenIsLiteral(t *testing.T) {
	b := NewBracket(lang.Default())

	blocks := b.Render("[style:message]{nope} [wat] ok[/style]", &domain.Message{}, testContext(false))

	require.Len(t, blocks, 1)
	assert.Equal(t, domain.TextBlock{Style: "message", Text: "{nope} [wat] ok"}, blocks[0])
}

func TestRenderTextOutsideStyleUsesDefaultStyle(t *testing.T) {
	b := NewBracket(lang.Default())

	blocks := b.Render("plain text", &domain.Message{}, testContext(false))

	require.Len(t, blocks, 1)
	assert.Equal(t, domain.TextBlock{Style: "message", Text: "plain text"}, blocks[0])
}

func TestRenderDefaultMessageFormat(t *testing.T) {
	b := NewBracket(lang.Default())
	msg := &domain.Message{
		Date: "1/1/24", Time: "10:00", Sender: "Anna",
		Text:          "PTT-1.opus (file attached)",
		Media:         &domain.MediaFile{Filename: "PTT-1.opus", AbsolutePath: "/tmp/PTT-1.opus", Kind: domain.MediaAudio},
		Transcription: "arrivo subito",
	}

	blocks := b.Render(DefaultMessageFormat, msg, testContext(false))

	require.Len(t, blocks, 5)
	assert.Equal(t, domain.TextBlock{Style: "sender", Text: "Anna • 1/1/24 10:00"}, blocks[0])
	assert.Equal(t, domain.SpacerBlock{Points: 6}, blocks[1])
	assert.Equal(t, domain.TextBlock{Style: "transcription", Text: "Audio: arrivo subito"}, blocks[2])
	assert.Equal(t, domain.TextBlock{Style: "media", Text: "AUDIO: PTT-1.opus"}, blocks[3])
	assert.Equal(t, domain.SpacerBlock{Points: 12}, blocks[4])
}
