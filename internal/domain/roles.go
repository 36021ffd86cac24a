package domain

// Role names used by templates to style messages.
const (
	RoleOwner = "user"
	RoleOther = "other"
)

// ParticipantRoles is the classifier result for one session. An empty
// OwnerSender means no owner could be designated (group chats, no match)
// and every sender renders with the "other" role.
type ParticipantRoles struct {
	OwnerSender string
}

// RoleFor returns the style role for a sender.
func (r ParticipantRoles) RoleFor(sender string) string {
	if r.OwnerSender != "" && sender == r.OwnerSender {
		return RoleOwner
	}
	return RoleOther
}
