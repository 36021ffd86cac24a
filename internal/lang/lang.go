// Package lang loads language-dependent strings: the phrases the export
// format embeds in message text and the labels used by rendering.
//
// Packs live in a languages/ directory as <code>.yaml files. Resolution is
// layered: hard English defaults, overlaid by the pack file when present.
package lang

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Patterns struct {
	// AttachedFile is the phrase the export appends to attachment
	// references, e.g. "file attached".
	AttachedFile string `yaml:"attached_file"`
	// ArchivePrefix is the leading phrase of export archive names,
	// e.g. "WhatsApp Chat with ".
	ArchivePrefix string `yaml:"archive_prefix"`
}

type Labels struct {
	Audio    string `yaml:"audio"`
	Image    string `yaml:"image"`
	Video    string `yaml:"video"`
	Document string `yaml:"document"`
	Media    string `yaml:"media"`
}

type Messages struct {
	ImageExcluded       string `yaml:"image_excluded"`
	TranscriptionFailed string `yaml:"transcription_failed"`
}

type UI struct {
	LabelMessages   string `yaml:"label_messages"`
	LabelMedia      string `yaml:"label_media"`
	LabelAudio      string `yaml:"label_audio"`
	LabelTranscript string `yaml:"label_transcript"`
	FooterGenerated string `yaml:"label_footer_generated"`
}

type Pack struct {
	Code     string   `yaml:"code"`
	Patterns Patterns `yaml:"patterns"`
	Labels   Labels   `yaml:"labels"`
	Messages Messages `yaml:"messages"`
	UI       UI       `yaml:"ui"`
}

// Default returns the built-in English pack.
func Default() Pack {
	return Pack{
		Code: "en",
		Patterns: Patterns{
			AttachedFile:  "file attached",
			ArchivePrefix: "WhatsApp Chat with ",
		},
		Labels: Labels{
			Audio:    "Audio:",
			Image:    "IMAGE",
			Video:    "VIDEO",
			Document: "DOCUMENT",
			Media:    "",
		},
		Messages: Messages{
			ImageExcluded:       "excluded for privacy",
			TranscriptionFailed: "Transcription failed",
		},
		UI: UI{
			LabelMessages:   "Messages",
			LabelMedia:      "Media",
			LabelAudio:      "Audio",
			LabelTranscript: "Chat Transcript",
			FooterGenerated: "Chat transcript generated by WhatsApp Transcriber",
		},
	}
}

// Load resolves the pack for code. A missing pack file is not an error: the
// defaults stand. A malformed pack file is an error so silent misconfig does
// not slip through.
func Load(dir, code string) (Pack, error) {
	pack := Default()
	if code == "" {
		return pack, nil
	}
	pack.Code = code

	path := filepath.Join(dir, code+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pack, nil
		}
		return pack, fmt.Errorf("reading language pack %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &pack); err != nil {
		return Default(), fmt.Errorf("parsing language pack %s: %w", path, err)
	}
	if pack.Code == "" {
		pack.Code = code
	}
	return pack, nil
}
