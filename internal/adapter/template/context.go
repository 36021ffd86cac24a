package template

import (
	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/lang"
)

// Context carries the per-session render state. It is created per rendering
// session and threaded through render calls, so nothing leaks across
// sessions.
type Context struct {
	Roles         domain.ParticipantRoles
	Lang          lang.Pack
	ExcludeImages bool

	lastDate string
}

func NewContext(roles domain.ParticipantRoles, pack lang.Pack, excludeImages bool) *Context {
	return &Context{Roles: roles, Lang: pack, ExcludeImages: excludeImages}
}

// ShowDate reports whether the date divider should render for a message
// with the given date: exactly when the date differs from the previous one
// seen in this session.
func (c *Context) ShowDate(date string) bool {
	if date == "" {
		return false
	}
	if date == c.lastDate {
		return false
	}
	c.lastDate = date
	return true
}
