// Package messaging defines the narrow contract the bot needs from the
// WhatsApp transport. Connection lifecycle, reconnects and delivery
// guarantees are the transport's problem; the bot only issues
// point-in-time operations and tolerates transient failures.
package messaging

import "context"

// OutgoingMessage is a text message to deliver to a chat
type OutgoingMessage struct {
	Text string
	// Mentions lists JIDs to tag in the message, if any
	Mentions []string
	// QuoteID quotes the message being replied to, if set
	QuoteID string
}

// Member is a group participant with their role
type Member struct {
	JID     string
	IsAdmin bool
}

// EventKind classifies inbound bridge events
type EventKind string

const (
	EventMessage      EventKind = "message"
	EventMemberJoined EventKind = "member_joined"
)

// Event is an inbound event from the transport
type Event struct {
	Kind      EventKind
	ChatID    string
	SenderID  string
	MessageID string
	Text      string
	// JID of the member who joined, for EventMemberJoined
	JoinedJID string
}

// Client is the outbound messaging contract
type Client interface {
	// Send delivers a message to a chat
	Send(ctx context.Context, chatID string, msg OutgoingMessage) error

	// GroupMembers returns the participant list of a group
	GroupMembers(ctx context.Context, groupID string) ([]Member, error)

	// ListGroups returns the IDs of every group the bot participates in
	ListGroups(ctx context.Context) ([]string, error)

	// RemoveFromGroup revokes a member's group membership
	RemoveFromGroup(ctx context.Context, groupID, jid string) error
}
