package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

const messageColumns = `
	id::text, sender_id::text, recipient_id::text, school_id::text,
	kind, body, question, answer, conversation_type,
	related_student::text, is_read, read_at, created_at
`

func (r *PgMessageRepository) SaveMessage(ctx context.Context, m messaging.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgMessageRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO school.message (
			sender_id, recipient_id, school_id, kind, body, question, answer,
			conversation_type, related_student, is_read, created_at
		) VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, false, $10)
		RETURNING id::text
	`, m.Sender, m.Recipient, m.School, m.Kind, m.Body, m.Question, m.Answer,
		m.ConversationType, deref(m.RelatedStudent), m.CreatedAt).Scan(&id)
	return id, err
}

func (r *PgMessageRepository) GetConversation(ctx context.Context, schoolID, userID, partnerID string, limit, offset int) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	limit, offset = clampPage(limit, offset)
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM school.message
		WHERE school_id = $1::uuid
		  AND kind = 'text'
		  AND ((sender_id = $2::uuid AND recipient_id = $3::uuid)
		    OR (sender_id = $3::uuid AND recipient_id = $2::uuid))
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, schoolID, userID, partnerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

func (r *PgMessageRepository) GetTutorContext(ctx context.Context, schoolID, studentID string, limit int) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	if limit <= 0 {
		limit = 30
	}
	// Most recent N, presented oldest first for prompt reconstruction.
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM (
			SELECT *
			FROM school.message
			WHERE school_id = $1::uuid
			  AND kind = 'ai-query'
			  AND sender_id = $2::uuid AND recipient_id = $2::uuid
			ORDER BY created_at DESC
			LIMIT $3
		) recent
		ORDER BY created_at ASC
	`, schoolID, studentID, limit)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

func (r *PgMessageRepository) GetTutorHistory(ctx context.Context, schoolID, studentID string, limit, offset int) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	limit, offset = clampPage(limit, offset)
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM school.message
		WHERE school_id = $1::uuid
		  AND kind = 'ai-query'
		  AND sender_id = $2::uuid AND recipient_id = $2::uuid
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, schoolID, studentID, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

func (r *PgMessageRepository) ClearTutorHistory(ctx context.Context, schoolID, studentID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessageRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM school.message
		WHERE school_id = $1::uuid
		  AND kind = 'ai-query'
		  AND sender_id = $2::uuid AND recipient_id = $2::uuid
	`, schoolID, studentID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgMessageRepository) MarkConversationRead(ctx context.Context, schoolID, readerID, partnerID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessageRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE school.message
		SET is_read = true, read_at = now()
		WHERE school_id = $1::uuid
		  AND kind = 'text'
		  AND recipient_id = $2::uuid AND sender_id = $3::uuid
		  AND NOT is_read
	`, schoolID, readerID, partnerID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgMessageRepository) ListConversationPartners(ctx context.Context, schoolID, userID string) ([]messaging.ConversationSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		WITH thread AS (
			SELECT CASE WHEN sender_id = $2::uuid THEN recipient_id ELSE sender_id END AS partner_id,
			       conversation_type, body, created_at, is_read, recipient_id
			FROM school.message
			WHERE school_id = $1::uuid
			  AND kind = 'text'
			  AND (sender_id = $2::uuid OR recipient_id = $2::uuid)
		)
		SELECT partner_id::text,
		       (ARRAY_AGG(conversation_type ORDER BY created_at DESC))[1],
		       (ARRAY_AGG(body ORDER BY created_at DESC))[1],
		       MAX(created_at),
		       COUNT(*) FILTER (WHERE NOT is_read AND recipient_id = $2::uuid)
		FROM thread
		GROUP BY partner_id
		ORDER BY MAX(created_at) DESC
	`, schoolID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []messaging.ConversationSummary
	for rows.Next() {
		var s messaging.ConversationSummary
		if err := rows.Scan(&s.PartnerID, &s.ConversationType, &s.LastContent, &s.LastAt, &s.UnreadCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *PgMessageRepository) SaveOfflineNotification(ctx context.Context, n messaging.OfflineNotification) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessageRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO school.offline_notification (message_id, recipient_id, school_id, created_at)
		VALUES ($1::uuid, $2::uuid, $3::uuid, $4)
		ON CONFLICT (message_id) DO NOTHING
	`, n.MessageID, n.Recipient, n.School, n.CreatedAt)
	return err
}

func scanMessages(rows pgx.Rows) ([]messaging.Message, error) {
	defer rows.Close()
	var msgs []messaging.Message
	for rows.Next() {
		var m messaging.Message
		if err := rows.Scan(
			&m.ID, &m.Sender, &m.Recipient, &m.School,
			&m.Kind, &m.Body, &m.Question, &m.Answer, &m.ConversationType,
			&m.RelatedStudent, &m.IsRead, &m.ReadAt, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
