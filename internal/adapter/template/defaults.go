package template

import _ "embed"

// Default bracket-markup templates, used when the configuration does not
// override them.
const (
	DefaultMessageFormat = "[style:sender]{sender} • {date} {time}[/style][br][style:message]{text}[/style][spacer:6][transcription][image][media][spacer:12]"
	DefaultSystemFormat  = "[style:system]{text}[/style][spacer:8]"
)

// DefaultDocumentTemplate is the built-in whole-document template for the
// block-structured dialect.
//
//go:embed default.html
var DefaultDocumentTemplate string
