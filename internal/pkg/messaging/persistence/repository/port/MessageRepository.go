package repository

import (
	"context"

	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
)

// MessageRepository defines persistence operations for the conversation store.
// Every read and write is filtered by school: tenant isolation exists only
// because no query ever omits that filter.
type MessageRepository interface {
	// SaveMessage appends one record and returns its generated id.
	SaveMessage(ctx context.Context, m messaging.Message) (string, error)

	// GetConversation returns text messages between two users within a school,
	// newest first, honoring limit/offset.
	GetConversation(ctx context.Context, schoolID, userID, partnerID string, limit, offset int) ([]messaging.Message, error)

	// GetTutorContext returns the most recent ai-query records for a student
	// (sender == recipient), reordered oldest first for prompt reconstruction.
	GetTutorContext(ctx context.Context, schoolID, studentID string, limit int) ([]messaging.Message, error)

	// GetTutorHistory returns ai-query records for a student, newest first,
	// honoring limit/offset.
	GetTutorHistory(ctx context.Context, schoolID, studentID string, limit, offset int) ([]messaging.Message, error)

	// ClearTutorHistory deletes all ai-query records for a student and reports
	// how many were removed. The only delete the store supports.
	ClearTutorHistory(ctx context.Context, schoolID, studentID string) (int64, error)

	// MarkConversationRead flags every unread message from partner to reader
	// as read. The only mutation the store supports after insert.
	MarkConversationRead(ctx context.Context, schoolID, readerID, partnerID string) (int64, error)

	// ListConversationPartners derives the reader's conversation list from
	// most-recent message ordering.
	ListConversationPartners(ctx context.Context, schoolID, userID string) ([]messaging.ConversationSummary, error)

	// SaveOfflineNotification records a missed live delivery.
	SaveOfflineNotification(ctx context.Context, n messaging.OfflineNotification) error
}
