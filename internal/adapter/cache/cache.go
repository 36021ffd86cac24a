// Package cache persists audio transcriptions so re-running a conversion
// does not re-invoke the transcription collaborator.
//
// The store is a flat directory with one UTF-8 text file per key. Keys are
// derived from the media basename and its size, so a changed file produces
// a different key while the basename prefix keeps entries debuggable.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
)

type FileCache struct {
	dir string
}

// New opens (and creates if needed) a cache directory.
func New(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache directory path.
func (c *FileCache) Dir() string {
	return c.dir
}

// Get returns the cached transcription for a media file. Any read failure,
// including a missing entry, is a miss.
func (c *FileCache) Get(media *domain.MediaFile) (string, bool) {
	data, err := os.ReadFile(c.entryPath(media))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// Put stores a transcription. The caller already holds the computed value,
// so a write failure only costs a future cache hit.
func (c *FileCache) Put(media *domain.MediaFile, text string) error {
	if err := os.WriteFile(c.entryPath(media), []byte(text), 0o600); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

func (c *FileCache) entryPath(media *domain.MediaFile) string {
	return filepath.Join(c.dir, Key(media)+".txt")
}

// Key derives the cache key for a media file: the basename joined with the
// first 16 hex characters of the hash of "basename_size". A stat failure
// counts the size as zero rather than failing the lookup.
func Key(media *domain.MediaFile) string {
	basename := filepath.Base(media.AbsolutePath)

	var size int64
	if info, err := os.Stat(media.AbsolutePath); err == nil {
		size = info.Size()
	}

	sum := md5.Sum([]byte(fmt.Sprintf("%s_%d", basename, size)))
	return basename + "_" + hex.EncodeToString(sum[:])[:16]
}
