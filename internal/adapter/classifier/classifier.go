// Package classifier infers which sender owns the conversation so rendering
// can style the owner's messages differently from the counterpart's.
//
// Export archives are named after the counterpart ("WhatsApp Chat with
// Maria Lopez.zip"), so the sender matching the archive label is the other
// party and the owner is whoever remains. With more than two senders (group
// chats) or no match, no owner is designated and every sender renders with
// the same role; that fallback is intentional.
package classifier

import (
	"sort"
	"strings"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
)

// Resolve computes the session roles once.
//
// archiveBase is the archive name without extension; prefix is the
// language-dependent leading phrase to strip from it; configuredOwner, when
// set, short-circuits detection with an exact sender name.
func Resolve(archiveBase, prefix, configuredOwner string, messages []domain.Message) domain.ParticipantRoles {
	if configuredOwner != "" {
		return domain.ParticipantRoles{OwnerSender: configuredOwner}
	}

	label := contactLabel(archiveBase, prefix)
	senders := collectSenders(messages)

	counterpart := matchSender(label, senders)
	if counterpart == "" || len(senders) != 2 {
		return domain.ParticipantRoles{}
	}

	for _, s := range senders {
		if s != counterpart {
			return domain.ParticipantRoles{OwnerSender: s}
		}
	}
	return domain.ParticipantRoles{}
}

// contactLabel strips the archive-name prefix; when the prefix does not
// occur the whole base name is the label.
func contactLabel(archiveBase, prefix string) string {
	if prefix != "" {
		if _, after, ok := strings.Cut(archiveBase, prefix); ok {
			return strings.TrimSpace(after)
		}
	}
	return strings.TrimSpace(archiveBase)
}

// collectSenders returns the distinct non-system senders in lexical order,
// so matching is deterministic regardless of message order.
func collectSenders(messages []domain.Message) []string {
	seen := make(map[string]bool)
	for i := range messages {
		if messages[i].IsSystem() {
			continue
		}
		seen[messages[i].Sender] = true
	}

	senders := make([]string, 0, len(seen))
	for s := range seen {
		senders = append(senders, s)
	}
	sort.Strings(senders)
	return senders
}

// matchSender finds the sender naming the counterpart: case-insensitive
// containment in either direction, or containment after stripping the
// characters phone numbers are formatted with. The cleaned label must be
// longer than 3 characters to avoid spurious short matches.
func matchSender(label string, senders []string) string {
	lowerLabel := strings.ToLower(label)
	cleanLabel := cleanPhone(label)

	for _, sender := range senders {
		lowerSender := strings.ToLower(sender)
		if strings.Contains(lowerSender, lowerLabel) || strings.Contains(lowerLabel, lowerSender) {
			return sender
		}

		cleanSender := cleanPhone(sender)
		if len(cleanLabel) > 3 && (strings.Contains(cleanSender, cleanLabel) || strings.Contains(cleanLabel, cleanSender)) {
			return sender
		}
	}
	return ""
}

var phoneChars = strings.NewReplacer(" ", "", "+", "", "-", "")

func cleanPhone(s string) string {
	return phoneChars.Replace(s)
}
