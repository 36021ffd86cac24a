package template

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/lang"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/logger"
)

// The block-structured dialect is a Mustache-like language for whole-document
// templates: {{var}} substitution, {{#if cond}}...{{else}}...{{/if}},
// {{#unless cond}}...{{/unless}} and a single {{#each messages}} section
// instantiated once per message.
//
// Templates parse into a node tree once and evaluate per message, so
// conditional nesting is properly scoped at any depth and unknown tokens
// never leak into the output: unknown variables render empty and unknown
// conditions evaluate false. The only fatal template error is a missing
// {{#each messages}} section.

type node interface{}

type literalNode string

type varNode string

type condNode struct {
	cond   string
	negate bool
	then   []node
	els    []node
}

type eachNode struct {
	collection string
	body       []node
}

var tagRe = regexp.MustCompile(`\{\{[^{}]*\}\}`)

type token struct {
	text  string
	isTag bool
}

func lex(src string) []token {
	var tokens []token
	last := 0
	for _, loc := range tagRe.FindAllStringIndex(src, -1) {
		if loc[0] > last {
			tokens = append(tokens, token{text: src[last:loc[0]]})
		}
		inner := strings.TrimSpace(src[loc[0]+2 : loc[1]-2])
		tokens = append(tokens, token{text: inner, isTag: true})
		last = loc[1]
	}
	if last < len(src) {
		tokens = append(tokens, token{text: src[last:]})
	}
	return tokens
}

type parser struct {
	tokens []token
	pos    int
}

// Parse builds the node tree for a template source. Parsing never fails:
// malformed structure degrades to whatever could be recognized.
func Parse(src string) []node {
	p := &parser{tokens: lex(src)}
	nodes, _ := p.parseNodes(nil)
	return nodes
}

// parseNodes consumes tokens until one of the terminator tags or end of
// input, returning the collected children and the terminator hit.
func (p *parser) parseNodes(terminators []string) ([]node, string) {
	var nodes []node

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		if !tok.isTag {
			nodes = append(nodes, literalNode(tok.text))
			continue
		}

		for _, term := range terminators {
			if tok.text == term {
				return nodes, term
			}
		}

		switch {
		case strings.HasPrefix(tok.text, "#if "):
			cond := strings.TrimSpace(strings.TrimPrefix(tok.text, "#if "))
			then, stop := p.parseNodes([]string{"else", "/if"})
			var els []node
			if stop == "else" {
				els, _ = p.parseNodes([]string{"/if"})
			}
			nodes = append(nodes, &condNode{cond: cond, then: then, els: els})

		case strings.HasPrefix(tok.text, "#unless "):
			cond := strings.TrimSpace(strings.TrimPrefix(tok.text, "#unless "))
			then, stop := p.parseNodes([]string{"else", "/unless"})
			var els []node
			if stop == "else" {
				els, _ = p.parseNodes([]string{"/unless"})
			}
			nodes = append(nodes, &condNode{cond: cond, negate: true, then: then, els: els})

		case strings.HasPrefix(tok.text, "#each "):
			collection := strings.TrimSpace(strings.TrimPrefix(tok.text, "#each "))
			body, _ := p.parseNodes([]string{"/each"})
			nodes = append(nodes, &eachNode{collection: collection, body: body})

		case strings.HasPrefix(tok.text, "/") || tok.text == "else" || strings.HasPrefix(tok.text, "#"):
			// Stray closer or unknown section tag: drop it, keep going.

		default:
			nodes = append(nodes, varNode(tok.text))
		}
	}

	return nodes, ""
}

// DocumentData holds the session-level values document templates can use.
type DocumentData struct {
	Title        string
	GeneratedAt  string
	Stats        domain.Stats
	ShowStats    bool
	FooterText   string
	LanguageCode string
	Labels       lang.UI
}

// Document renders whole-document templates of the block-structured dialect.
type Document struct {
	pack attachmentStripper
	log  logger.Logger
}

// attachmentStripper is the shared {text}-cleanup behavior of both dialects.
type attachmentStripper interface {
	cleanText(string) string
}

func NewDocument(bracket *Bracket, log logger.Logger) *Document {
	return &Document{pack: bracket, log: log}
}

// Render instantiates the template over all messages. The absence of a
// {{#each messages}} section is the one fatal template error.
func (d *Document) Render(src string, messages []domain.Message, data DocumentData, ctx *Context) (string, error) {
	nodes := Parse(src)

	if !hasMessagesSection(nodes) {
		return "", fmt.Errorf("template must contain {{#each messages}}...{{/each}} block")
	}

	var sb strings.Builder
	d.renderNodes(&sb, nodes, messages, data, ctx)
	return sb.String(), nil
}

func hasMessagesSection(nodes []node) bool {
	for _, n := range nodes {
		switch v := n.(type) {
		case *eachNode:
			if v.collection == "messages" {
				return true
			}
		case *condNode:
			if hasMessagesSection(v.then) || hasMessagesSection(v.els) {
				return true
			}
		}
	}
	return false
}

func (d *Document) renderNodes(sb *strings.Builder, nodes []node, messages []domain.Message, data DocumentData, ctx *Context) {
	for _, n := range nodes {
		switch v := n.(type) {
		case literalNode:
			sb.WriteString(string(v))

		case varNode:
			sb.WriteString(d.documentVar(string(v), data))

		case *condNode:
			branch := v.then
			if d.documentCond(v.cond, data) == v.negate {
				branch = v.els
			}
			d.renderNodes(sb, branch, messages, data, ctx)

		case *eachNode:
			if v.collection != "messages" {
				continue
			}
			for i := range messages {
				d.renderMessage(sb, v.body, &messages[i], ctx)
			}
		}
	}
}

func (d *Document) documentVar(name string, data DocumentData) string {
	switch name {
	case "chat_title":
		return data.Title
	case "generation_date":
		return data.GeneratedAt
	case "total_messages":
		return strconv.Itoa(data.Stats.Messages)
	case "total_media":
		return strconv.Itoa(data.Stats.Media)
	case "total_transcriptions":
		return strconv.Itoa(data.Stats.Transcriptions)
	case "footer_text":
		return data.FooterText
	case "language_code":
		return data.LanguageCode
	case "label_messages":
		return data.Labels.LabelMessages
	case "label_media":
		return data.Labels.LabelMedia
	case "label_audio":
		return data.Labels.LabelAudio
	case "label_transcript":
		return data.Labels.LabelTranscript
	case "label_footer_generated":
		return data.Labels.FooterGenerated
	}
	return ""
}

func (d *Document) documentCond(name string, data DocumentData) bool {
	return name == "show_stats" && data.ShowStats
}

// messageState is computed once per message instance so every occurrence of
// a condition inside the body sees the same answer.
type messageState struct {
	msg      *domain.Message
	showDate bool
	ctx      *Context
}

func (d *Document) renderMessage(sb *strings.Builder, body []node, msg *domain.Message, ctx *Context) {
	state := &messageState{msg: msg, showDate: ctx.ShowDate(msg.Date), ctx: ctx}
	d.renderMessageNodes(sb, body, state)
}

func (d *Document) renderMessageNodes(sb *strings.Builder, nodes []node, state *messageState) {
	for _, n := range nodes {
		switch v := n.(type) {
		case literalNode:
			sb.WriteString(string(v))

		case varNode:
			sb.WriteString(d.messageVar(string(v), state))

		case *condNode:
			branch := v.then
			if d.messageCond(v.cond, state) == v.negate {
				branch = v.els
			}
			d.renderMessageNodes(sb, branch, state)

		case *eachNode:
			// Nested message loops are not a thing; drop them.
		}
	}
}

func (d *Document) messageCond(name string, state *messageState) bool {
	msg := state.msg
	switch name {
	case "this.is_system":
		return msg.IsSystem()
	case "this.show_date":
		return state.showDate
	case "this.transcription":
		return msg.Transcription != ""
	case "this.media":
		return msg.Media != nil
	case "this.media.is_image":
		return msg.Media != nil && msg.Media.Kind == domain.MediaImage && !state.ctx.ExcludeImages
	}
	return false
}

func (d *Document) messageVar(name string, state *messageState) string {
	msg := state.msg
	switch name {
	case "this.sender":
		return msg.Sender
	case "this.date", "this.current_date":
		return msg.Date
	case "this.time":
		return msg.Time
	case "this.text":
		return d.pack.cleanText(msg.Text)
	case "this.message_class":
		return state.ctx.Roles.RoleFor(msg.Sender)
	case "this.transcription":
		return msg.Transcription
	case "this.media.filename":
		if msg.Media != nil {
			return msg.Media.Filename
		}
	case "this.media.path":
		// The output document is not guaranteed filesystem access at
		// display time, so images embed as self-contained data URIs.
		if msg.Media != nil && msg.Media.Kind == domain.MediaImage && !state.ctx.ExcludeImages {
			return d.imageDataURI(msg.Media)
		}
	}
	return ""
}

func (d *Document) imageDataURI(media *domain.MediaFile) string {
	data, err := os.ReadFile(media.AbsolutePath)
	if err != nil {
		d.log.Warn("failed to load image %s: %v", media.Filename, err)
		return ""
	}
	return "data:" + imageMIME(media.Filename) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func imageMIME(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	}
	return "image/gif"
}
