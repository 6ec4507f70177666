package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/atelierhq/atelier/internal/domain"
)

// AuditStore implements domain.AuditStore on PostgreSQL.
type AuditStore struct {
	db *DB
}

var _ domain.AuditStore = (*AuditStore)(nil)

func NewAuditStore(db *DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Append(ctx context.Context, entry *domain.AuditEntry) error {
	const op = "audit.append"

	detail := entry.Detail
	if detail == nil {
		detail = map[string]any{}
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return domain.Internal(err, op, "failed to encode audit detail")
	}

	var eid pgtype.UUID
	err = s.db.pool.QueryRow(ctx, `
INSERT INTO audit_log (actor_id, actor_email, action, entity_type, entity_id, detail)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`,
		pgUUIDPtr(entry.ActorID), entry.ActorEmail, entry.Action,
		entry.EntityType, pgUUID(entry.EntityID), raw,
	).Scan(&eid, &entry.CreatedAt)
	if err != nil {
		return wrapQueryError(err, op, "failed to append audit entry")
	}
	entry.ID = fromPgUUID(eid)
	return nil
}

func (s *AuditStore) List(ctx context.Context, page domain.OffsetPage) (*domain.AuditPage, error) {
	const op = "audit.list"

	limit := page.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.pool.Query(ctx, `
SELECT id, actor_id, actor_email, action, entity_type, entity_id, detail, created_at,
       COUNT(*) OVER () AS total
FROM audit_log
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, wrapQueryError(err, op, "failed to list audit entries")
	}
	defer rows.Close()

	result := &domain.AuditPage{Offset: offset, Limit: limit}
	for rows.Next() {
		var (
			eid, entityID pgtype.UUID
			actorID       pgtype.UUID
			raw           []byte
			entry         domain.AuditEntry
		)
		if err := rows.Scan(&eid, &actorID, &entry.ActorEmail, &entry.Action,
			&entry.EntityType, &entityID, &raw, &entry.CreatedAt, &result.Total); err != nil {
			return nil, wrapQueryError(err, op, "failed to scan audit entry")
		}
		entry.ID = fromPgUUID(eid)
		entry.ActorID = fromPgUUIDPtr(actorID)
		entry.EntityID = fromPgUUID(entityID)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &entry.Detail); err != nil {
				return nil, domain.Internal(err, op, "failed to decode audit detail")
			}
		}
		result.Items = append(result.Items, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, op, "failed to list audit entries")
	}
	return result, nil
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// NotificationStore implements domain.NotificationStore on PostgreSQL.
type NotificationStore struct {
	db *DB
}

var _ domain.NotificationStore = (*NotificationStore)(nil)

func NewNotificationStore(db *DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Append(ctx context.Context, n *domain.Notification) error {
	const op = "notification.append"

	var nid pgtype.UUID
	err := s.db.pool.QueryRow(ctx, `
INSERT INTO notifications (channel, recipient, subject, status, provider_message_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`,
		n.Channel, n.Recipient, n.Subject, string(n.Status), n.ProviderMessageID,
	).Scan(&nid, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return wrapQueryError(err, op, "failed to append notification")
	}
	n.ID = fromPgUUID(nid)
	return nil
}

// UpdateStatusByProviderID applies a delivery receipt. Receipts for unknown
// provider IDs are dropped silently.
func (s *NotificationStore) UpdateStatusByProviderID(ctx context.Context, providerMessageID string, status domain.NotificationStatus) error {
	const op = "notification.update_status"

	if providerMessageID == "" {
		return nil
	}
	_, err := s.db.pool.Exec(ctx, `
UPDATE notifications
SET status = $2, updated_at = now()
WHERE provider_message_id = $1`, providerMessageID, string(status))
	if err != nil {
		return wrapQueryError(err, op, "failed to update notification status")
	}
	return nil
}

// =============================================================================
// STYLIST TRANSCRIPTS
// =============================================================================

// TranscriptStore implements domain.TranscriptStore on PostgreSQL.
type TranscriptStore struct {
	db *DB
}

var _ domain.TranscriptStore = (*TranscriptStore)(nil)

func NewTranscriptStore(db *DB) *TranscriptStore {
	return &TranscriptStore{db: db}
}

func (s *TranscriptStore) Append(ctx context.Context, sessionID string, msgs []domain.ChatMessage) error {
	const op = "transcript.append"

	for _, msg := range msgs {
		_, err := s.db.pool.Exec(ctx, `
INSERT INTO stylist_transcripts (session_id, role, content)
VALUES ($1, $2, $3)`, sessionID, msg.Role, msg.Content)
		if err != nil {
			return wrapQueryError(err, op, "failed to append transcript")
		}
	}
	return nil
}
