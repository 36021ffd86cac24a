package domain

import "time"

// Chat is the in-memory session model produced by the parser.
type Chat struct {
	Title    string
	Messages []Message
	// MediaDir is the directory holding the extracted media files.
	MediaDir string
}

// Stats are the session-level aggregates used by document templates.
type Stats struct {
	Messages       int
	Media          int
	Transcriptions int
}

func (c *Chat) Stats() Stats {
	s := Stats{Messages: len(c.Messages)}
	for i := range c.Messages {
		if c.Messages[i].Media != nil {
			s.Media++
		}
		if c.Messages[i].Transcription != "" {
			s.Transcriptions++
		}
	}
	return s
}

// Filter returns a new Chat containing only messages within the given time
// range. nil values for from/to mean no lower/upper bound. Messages whose
// date or time cannot be parsed are kept.
func (c *Chat) Filter(from, to *time.Time) *Chat {
	filtered := &Chat{Title: c.Title, MediaDir: c.MediaDir}
	for _, msg := range c.Messages {
		ts, ok := msg.Timestamp()
		if ok {
			if from != nil && ts.Before(*from) {
				continue
			}
			if to != nil && ts.After(*to) {
				continue
			}
		}
		filtered.Messages = append(filtered.Messages, msg)
	}
	return filtered
}

var timestampLayouts = []string{
	"2/1/06, 15:04",
	"2/1/2006, 15:04",
	"1/2/06, 15:04",
	"1/2/2006, 15:04",
}

// Timestamp parses the preserved date/time strings. The export format does
// not say whether day or month comes first, so both orders are attempted.
func (m *Message) Timestamp() (time.Time, bool) {
	if m.Date == "" || m.Time == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, m.Date+", "+m.Time); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
