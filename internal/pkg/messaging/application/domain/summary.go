package messaging

import "time"

// ConversationSummary is one row of a user's conversation list: the partner
// and the most recent exchange, derived from created_at ordering.
type ConversationSummary struct {
	PartnerID        string           `db:"partner_id"`
	ConversationType ConversationType `db:"conversation_type"`
	LastContent      string           `db:"last_content"`
	LastAt           time.Time        `db:"last_at"`
	UnreadCount      int              `db:"unread_count"`
}

// OfflineNotification records a live delivery that found the recipient
// disconnected, for later digest delivery. Written by the queue worker.
type OfflineNotification struct {
	MessageID string    `db:"message_id"`
	Recipient string    `db:"recipient_id"`
	School    string    `db:"school_id"`
	CreatedAt time.Time `db:"created_at"`
}
