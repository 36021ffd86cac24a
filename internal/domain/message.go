package domain

// SystemSender marks records that have no attributable human sender
// (group notices, encryption banners and the like).
const SystemSender = "System"

// Message is one logical record of the chat export. Date and Time keep the
// source format verbatim; Text may span multiple lines joined by "\n".
// Media and Transcription are attached once by the correlator and are not
// mutated afterwards.
type Message struct {
	Date          string
	Time          string
	Sender        string
	Text          string
	Media         *MediaFile
	Transcription string
}

// IsSystem reports whether the message has no attributable sender.
func (m *Message) IsSystem() bool {
	return m.Sender == "" || m.Sender == SystemSender
}
