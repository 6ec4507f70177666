package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEntry records a back-office mutation: who did what to which entity.
// Detail holds a small JSON blob of operation-specific fields.
type AuditEntry struct {
	ID         uuid.UUID
	ActorID    *uuid.UUID
	ActorEmail string
	Action     string // e.g. "product.create", "order.status"
	EntityType string
	EntityID   uuid.UUID
	Detail     map[string]any
	CreatedAt  time.Time
}

// AuditPage is one page of audit entries.
type AuditPage struct {
	Items  []AuditEntry
	Total  int64
	Offset int32
	Limit  int32
}

// AuditStore persists and lists audit entries. Writes happen inside the
// mutating service calls; a write failure is logged, never surfaced.
type AuditStore interface {
	Append(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, page OffsetPage) (*AuditPage, error)
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// NotificationStatus tracks a message through the delivery provider.
type NotificationStatus string

const (
	NotificationQueued    NotificationStatus = "queued"
	NotificationSent      NotificationStatus = "sent"
	NotificationDelivered NotificationStatus = "delivered"
	NotificationFailed    NotificationStatus = "failed"
)

// Notification is one outbound message (email or SMS). Delivery webhooks
// update Status by ProviderMessageID.
type Notification struct {
	ID                uuid.UUID
	Channel           string // "email" or "sms"
	Recipient         string
	Subject           string
	Status            NotificationStatus
	ProviderMessageID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NotificationStore persists the notification log.
type NotificationStore interface {
	Append(ctx context.Context, n *Notification) error

	// UpdateStatusByProviderID applies a delivery receipt. Unknown provider
	// IDs are not an error; receipts can outlive the log.
	UpdateStatusByProviderID(ctx context.Context, providerMessageID string, status NotificationStatus) error
}
