// Package template implements the two template dialects that turn enriched
// messages into content blocks or a markup document.
package template

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/lang"
)

// tokenRe splits a bracket-markup template into directive/variable tokens
// and literal text between them.
var tokenRe = regexp.MustCompile(`\[.*?\]|\{.*?\}`)

// Bracket interprets the flat bracket-markup dialect over one message at a
// time, producing content blocks for the layout engine.
//
// Variables: {sender} {date} {time} {text} {transcription}.
// Directives: [style:NAME]...[/style] [spacer:N] [image] [media]
// [transcription] [br]. Unrecognized tokens are literal text.
type Bracket struct {
	pack       lang.Pack
	attachedRe *regexp.Regexp
}

func NewBracket(pack lang.Pack) *Bracket {
	return &Bracket{
		pack:       pack,
		attachedRe: attachmentRefPattern(pack.Patterns.AttachedFile),
	}
}

// attachmentRefPattern matches the reference the export leaves in message
// text for an attached file: "NAME.EXT (<attached-file phrase>)".
func attachmentRefPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`[\w.\-]+\.\w+\s*\(` + regexp.QuoteMeta(phrase) + `\)`)
}

const defaultStyle = "message"

// Render interprets the template against one message. Literal text buffers
// up and flushes into a styled block at style boundaries, directives and end
// of template; whitespace-only buffers produce no block.
func (b *Bracket) Render(tpl string, msg *domain.Message, ctx *Context) []domain.Block {
	var blocks []domain.Block
	var buf strings.Builder
	style := ""

	flush := func() {
		text := buf.String()
		buf.Reset()
		if strings.TrimSpace(text) == "" {
			return
		}
		name := style
		if name == "" {
			name = defaultStyle
		}
		blocks = append(blocks, domain.TextBlock{Style: name, Text: text})
	}

	for _, part := range splitTokens(tpl) {
		switch {
		case part == "":

		case part == "{sender}":
			buf.WriteString(msg.Sender)
		case part == "{date}":
			buf.WriteString(msg.Date)
		case part == "{time}":
			buf.WriteString(msg.Time)
		case part == "{text}":
			buf.WriteString(b.cleanText(msg.Text))
		case part == "{transcription}":
			if msg.Transcription != "" {
				buf.WriteString(b.pack.Labels.Audio + " " + msg.Transcription)
			}

		case part == "[transcription]":
			flush()
			if msg.Transcription != "" {
				blocks = append(blocks, domain.TextBlock{
					Style: "transcription",
					Text:  b.pack.Labels.Audio + " " + msg.Transcription,
				})
			}

		case strings.HasPrefix(part, "[style:") && strings.HasSuffix(part, "]"):
			flush()
			style = part[len("[style:") : len(part)-1]

		case part == "[/style]":
			flush()
			style = ""

		case strings.HasPrefix(part, "[spacer:") && strings.HasSuffix(part, "]"):
			flush()
			if points, err := strconv.Atoi(part[len("[spacer:") : len(part)-1]); err == nil {
				blocks = append(blocks, domain.SpacerBlock{Points: points})
			}

		case part == "[image]":
			flush()
			if block := b.imageBlock(msg, ctx); block != nil {
				blocks = append(blocks, block)
			}

		case part == "[media]":
			flush()
			if msg.Media != nil && msg.Media.Kind != domain.MediaImage {
				blocks = append(blocks, domain.TextBlock{
					Style: "media",
					Text:  strings.ToUpper(msg.Media.Kind.String()) + ": " + msg.Media.Filename,
				})
			}

		case part == "[br]":
			buf.WriteString("\n")

		default:
			// Unrecognized token: fail open, keep it as literal text.
			buf.WriteString(part)
		}
	}

	flush()
	return blocks
}

func (b *Bracket) imageBlock(msg *domain.Message, ctx *Context) domain.Block {
	if msg.Media == nil || msg.Media.Kind != domain.MediaImage {
		return nil
	}
	if ctx.ExcludeImages {
		return domain.TextBlock{
			Style: "media",
			Text:  b.pack.Labels.Image + ": " + msg.Media.Filename + " (" + b.pack.Messages.ImageExcluded + ")",
		}
	}
	return domain.ImageBlock{Path: msg.Media.AbsolutePath, Filename: msg.Media.Filename}
}

// cleanText strips the attachment reference out of message text so the
// filename noise does not render alongside the real content.
func (b *Bracket) cleanText(text string) string {
	return b.attachedRe.ReplaceAllString(text, "")
}

// splitTokens returns the template as an alternation of literal segments
// and bracket/brace tokens, in order.
func splitTokens(tpl string) []string {
	var parts []string
	last := 0
	for _, loc := range tokenRe.FindAllStringIndex(tpl, -1) {
		if loc[0] > last {
			parts = append(parts, tpl[last:loc[0]])
		}
		parts = append(parts, tpl[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(tpl) {
		parts = append(parts, tpl[last:])
	}
	return parts
}
