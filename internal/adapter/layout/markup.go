package layout

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/logger"
)

// MarkupEngine persists an assembled markup document. When a converter
// binary is configured (wkhtmltopdf or compatible: `converter in.html out`),
// the markup is piped through it; otherwise the markup file itself is the
// output.
type MarkupEngine struct {
	converter string
	log       logger.Logger
}

func NewMarkup(converter string, log logger.Logger) *MarkupEngine {
	return &MarkupEngine{converter: converter, log: log}
}

func (e *MarkupEngine) RenderMarkup(ctx context.Context, markup, outPath string) error {
	if e.converter == "" {
		if err := os.WriteFile(outPath, []byte(markup), 0o644); err != nil {
			return fmt.Errorf("writing document: %w", err)
		}
		return nil
	}

	htmlPath := outPath + ".html"
	if err := os.WriteFile(htmlPath, []byte(markup), 0o600); err != nil {
		return fmt.Errorf("writing intermediate markup: %w", err)
	}
	defer os.Remove(htmlPath)

	cmd := exec.CommandContext(ctx, e.converter, htmlPath, outPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return fmt.Errorf("converter '%s' failed: %w\nstderr: %s", e.converter, err, stderrStr)
		}
		return fmt.Errorf("converter '%s' failed: %w", e.converter, err)
	}

	e.log.Debug("converted markup via %s", e.converter)
	return nil
}
