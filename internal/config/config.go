// Package config resolves runtime settings from defaults, the config file,
// environment variables and command-line flags, in ascending precedence.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings is the resolved, immutable configuration of one invocation.
type Settings struct {
	Language      string
	Transcriber   string
	GeminiAPIKey  string
	GeminiModel   string
	OwnerName     string
	ExcludeImages bool
	ShowStats     bool
	FooterText    string
	Dialect       string
	MessageFormat string
	SystemFormat  string
	TemplateFile  string
	HTMLConverter string
	LogLevel      string
	LangDir       string
}

const (
	DialectBracket = "bracket"
	DialectBlocks  = "blocks"

	TranscriberOpenAI = "openai"
	TranscriberGemini = "gemini"
)

// SetDefaults registers the lowest-precedence layer on v. Config file,
// environment and bound flags override these.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("language", "")
	v.SetDefault("transcriber", TranscriberOpenAI)
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("owner_name", "")
	v.SetDefault("exclude_images", false)
	v.SetDefault("show_stats", true)
	v.SetDefault("footer_text", "")
	v.SetDefault("dialect", DialectBracket)
	v.SetDefault("message_format", "")
	v.SetDefault("system_format", "")
	v.SetDefault("template_file", "")
	v.SetDefault("html_converter", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("lang_dir", "languages")
}

// Resolve reads the merged view out of v and validates enum values.
func Resolve(v *viper.Viper) (Settings, error) {
	s := Settings{
		Language:      v.GetString("language"),
		Transcriber:   v.GetString("transcriber"),
		GeminiAPIKey:  v.GetString("gemini_api_key"),
		GeminiModel:   v.GetString("gemini_model"),
		OwnerName:     v.GetString("owner_name"),
		ExcludeImages: v.GetBool("exclude_images"),
		ShowStats:     v.GetBool("show_stats"),
		FooterText:    v.GetString("footer_text"),
		Dialect:       v.GetString("dialect"),
		MessageFormat: v.GetString("message_format"),
		SystemFormat:  v.GetString("system_format"),
		TemplateFile:  v.GetString("template_file"),
		HTMLConverter: v.GetString("html_converter"),
		LogLevel:      v.GetString("log_level"),
		LangDir:       v.GetString("lang_dir"),
	}

	switch s.Dialect {
	case DialectBracket, DialectBlocks:
	default:
		return Settings{}, fmt.Errorf("unknown dialect %q (expected %q or %q)", s.Dialect, DialectBracket, DialectBlocks)
	}

	switch s.Transcriber {
	case TranscriberOpenAI, TranscriberGemini:
	default:
		return Settings{}, fmt.Errorf("unknown transcriber %q (expected %q or %q)", s.Transcriber, TranscriberOpenAI, TranscriberGemini)
	}

	if s.Transcriber == TranscriberGemini && s.GeminiAPIKey == "" {
		return Settings{}, fmt.Errorf("transcriber %q requires gemini_api_key (or GEMINI_API_KEY)", TranscriberGemini)
	}

	return s, nil
}
