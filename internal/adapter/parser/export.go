package parser

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
)

// ExportParser parses chat exports (.zip files with a .txt transcript and
// media alongside).
type ExportParser struct {
	// TempDir holds the path to the extracted files (set after Parse).
	TempDir string

	tempDirs []string
}

// Record-start grammar: a numeric date, a comma, whitespace and a numeric
// time. The decompose patterns split a matching line into its fields.
//   - full:   date, time - sender: text (sender up to the first colon)
//   - system: date, time - text
var (
	startRe  = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4},\s+\d{1,2}:\d{2}`)
	fullRe   = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}),\s+(\d{1,2}:\d{2})\s*-\s*(.*?):\s*(.*)$`)
	systemRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}),\s+(\d{1,2}:\d{2})\s*-\s*(.*)$`)
)

func (p *ExportParser) Parse(exportPath string) (*domain.Chat, error) {
	tempDir, err := os.MkdirTemp("", "chat-transcriber-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	p.TempDir = tempDir
	p.tempDirs = append(p.tempDirs, tempDir)

	if err := extractZip(exportPath, tempDir); err != nil {
		return nil, fmt.Errorf("extracting zip: %w", err)
	}

	txtFile, err := findChatFile(tempDir)
	if err != nil {
		return nil, fmt.Errorf("finding chat file: %w", err)
	}

	lines, err := readLines(txtFile)
	if err != nil {
		return nil, fmt.Errorf("reading chat file: %w", err)
	}

	return &domain.Chat{
		Title:    strings.TrimSuffix(filepath.Base(txtFile), ".txt"),
		Messages: ParseLines(lines),
		MediaDir: tempDir,
	}, nil
}

// Cleanup removes every temporary directory created so far. Safe to call
// after each Parse when one parser handles many archives.
func (p *ExportParser) Cleanup() {
	for _, dir := range p.tempDirs {
		_ = os.RemoveAll(dir)
	}
	p.tempDirs = nil
	p.TempDir = ""
}

// ParseLines turns raw transcript lines into ordered messages. A logical
// record spans from a record-start line up to, but not including, the next
// one; other lines are continuations appended verbatim. Lines before the
// first record-start are dropped. Input with no record-start line at all
// yields a single message holding the raw content, so callers always get
// something to render.
func ParseLines(lines []string) []domain.Message {
	var messages []domain.Message
	var current *domain.Message

	for _, raw := range lines {
		line := stripInvisible(raw)

		if startRe.MatchString(line) {
			if current != nil {
				messages = append(messages, *current)
			}
			msg := decompose(line)
			current = &msg
		} else if current != nil {
			current.Text += "\n" + line
		}
	}

	if current != nil {
		messages = append(messages, *current)
	}

	if len(messages) == 0 && len(lines) > 0 {
		return []domain.Message{{Text: strings.Join(lines, "\n")}}
	}

	return messages
}

func decompose(line string) domain.Message {
	if m := fullRe.FindStringSubmatch(line); m != nil {
		return domain.Message{
			Date:   m[1],
			Time:   m[2],
			Sender: strings.TrimSpace(m[3]),
			Text:   strings.TrimSpace(m[4]),
		}
	}

	if m := systemRe.FindStringSubmatch(line); m != nil {
		return domain.Message{
			Date:   m[1],
			Time:   m[2],
			Sender: domain.SystemSender,
			Text:   strings.TrimSpace(m[3]),
		}
	}

	// Start grammar hit but neither decompose stage matched. Recoverable:
	// keep the whole line as text.
	return domain.Message{Text: line}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// stripInvisible removes Unicode control characters (LTR mark, zero-width
// spaces, etc.) the export sprinkles around dates and attachment markers.
func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u200e' || r == '\u200f': // LTR / RTL mark
			return -1
		case r == '\u200b' || r == '\u200c' || r == '\u200d': // zero-width spaces
			return -1
		case r == '\ufeff': // BOM
			return -1
		default:
			return r
		}
	}, s)
}

func extractZip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		// Sanitize path to prevent zip slip (G305)
		name := filepath.Clean(f.Name)
		if strings.Contains(name, "..") {
			continue
		}
		destPath := filepath.Join(destDir, name)

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0o750); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o750); err != nil {
			return err
		}

		if err := extractZipFile(f, destPath); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(f *zip.File, destPath string) error {
	outFile, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	// Limit extraction size to 1 GB to prevent decompression bombs (G110)
	const maxSize = 1 << 30
	_, err = io.Copy(outFile, io.LimitReader(rc, maxSize))
	return err
}

func findChatFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".txt") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no .txt chat file found in export")
}
