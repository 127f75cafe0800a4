package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/texura-githhubsource/SMS/internal/infrastructure/queue/port"
	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
	repoAdapter "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/adapter"
)

// NotifyOfflineTaskType is the queue task name for recording a live delivery
// that found the recipient disconnected.
const NotifyOfflineTaskType = "messaging:notify_offline"

// NotifyOfflineTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type NotifyOfflineTaskPayload struct {
	MessageID   string    `json:"messageId"`
	RecipientID string    `json:"recipientId"`
	SchoolID    string    `json:"schoolId"`
	SentAt      time.Time `json:"sentAt"`
}

// RegisterNotifyOfflineTask binds the task handler to the provided server.
// The handler records the missed delivery for later digest processing; it is
// idempotent via the unique constraint on message id.
func RegisterNotifyOfflineTask(srv qport.Server, pool *pgxpool.Pool) {
	srv.Register(NotifyOfflineTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyOfflineTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		repo := repoAdapter.NewPgMessageRepository(pool)

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		return repo.SaveOfflineNotification(ctx, messaging.OfflineNotification{
			MessageID: p.MessageID,
			Recipient: p.RecipientID,
			School:    p.SchoolID,
			CreatedAt: p.SentAt,
		})
	})
}
