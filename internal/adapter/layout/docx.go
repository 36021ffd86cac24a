// Package layout wraps the external document engines consuming the rendered
// output: a .docx writer for content blocks and a markup writer for
// whole-document templates.
package layout

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/logger"
)

const (
	fontName = "Helvetica"

	colorSender = "075E54"
	colorMedia  = "0084FF"
	colorSystem = "808080"
	colorText   = "000000"
)

// DocxEngine paginates content blocks into a .docx document.
type DocxEngine struct {
	log logger.Logger
}

func NewDocx(log logger.Logger) *DocxEngine {
	return &DocxEngine{log: log}
}

func (e *DocxEngine) RenderBlocks(blocks []domain.Block, outPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	for _, block := range blocks {
		switch b := block.(type) {
		case domain.TextBlock:
			e.addText(doc, b)
		case domain.ImageBlock:
			// Image decode failures skip the block, never abort: partial
			// output beats no output.
			if err := addPicture(doc, b.Path); err != nil {
				e.log.Warn("failed to embed image %s: %v", b.Filename, err)
			}
		case domain.SpacerBlock:
			for i := 0; i < spacerParagraphs(b.Points); i++ {
				doc.AddParagraph("")
			}
		}
	}

	if err := doc.SaveTo(outPath); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// spacerParagraphs approximates a point height with empty paragraphs.
func spacerParagraphs(points int) int {
	n := points / 12
	if n < 1 {
		n = 1
	}
	return n
}

func (e *DocxEngine) addText(doc *docx.RootDoc, b domain.TextBlock) {
	for _, line := range splitLines(b.Text) {
		p := doc.AddParagraph("")
		run := p.AddText(line).Font(fontName).Size(styleSize(b.Style)).Color(styleColor(b.Style))
		switch b.Style {
		case "sender", "title":
			run.Bold(true)
		case "system", "transcription":
			run.Italic(true)
		}
	}
}

func styleSize(style string) uint64 {
	switch style {
	case "title":
		return 16
	case "sender":
		return 11
	case "time", "system", "media", "transcription":
		return 9
	default:
		return 10
	}
}

func styleColor(style string) string {
	switch style {
	case "sender", "title":
		return colorSender
	case "media":
		return colorMedia
	case "system", "time":
		return colorSystem
	default:
		return colorText
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
