package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/auth"
	"github.com/atelierhq/atelier/internal/domain"
)

// auditTrail writes audit rows for back-office mutations. A write failure is
// logged and swallowed so it never fails the mutation it describes.
type auditTrail struct {
	store  domain.AuditStore
	logger *slog.Logger
}

func newAuditTrail(store domain.AuditStore, logger *slog.Logger) *auditTrail {
	if logger == nil {
		logger = slog.Default()
	}
	return &auditTrail{store: store, logger: logger}
}

func (a *auditTrail) record(ctx context.Context, action, entityType string, entityID uuid.UUID, detail map[string]any) {
	if a == nil || a.store == nil {
		return
	}

	entry := &domain.AuditEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if member := auth.MemberFromContext(ctx); member != nil {
		id := member.ID
		entry.ActorID = &id
		entry.ActorEmail = member.Email
	}

	if err := a.store.Append(ctx, entry); err != nil {
		a.logger.Error("failed to write audit entry",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}

// AuditService exposes the audit log to the admin API.
type AuditService interface {
	ListAudit(ctx context.Context, page domain.OffsetPage) (*domain.AuditPage, error)
}

type auditService struct {
	store domain.AuditStore
}

// NewAuditService creates the audit listing service.
func NewAuditService(store domain.AuditStore) AuditService {
	return &auditService{store: store}
}

func (s *auditService) ListAudit(ctx context.Context, page domain.OffsetPage) (*domain.AuditPage, error) {
	return s.store.List(ctx, page)
}
