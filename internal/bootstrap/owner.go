// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atelierhq/atelier/internal"
	"github.com/atelierhq/atelier/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EnsureOwner creates the initial owner account if one does not exist yet.
// Idempotent - safe to call on every startup.
//
// If the configuration is empty it logs a warning and skips, so the server
// can still be brought up and an owner created manually.
func EnsureOwner(ctx context.Context, store domain.TeamStore, cfg internal.BootstrapConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.OwnerEmail == "" || cfg.OwnerPassword == "" {
		logger.Warn("bootstrap: skipping owner creation, BOOTSTRAP_OWNER_EMAIL or BOOTSTRAP_OWNER_PASSWORD not set")
		return nil
	}
	if len(cfg.OwnerPassword) < 12 {
		return errors.New("bootstrap: owner password must be at least 12 characters")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.OwnerEmail))

	existing, err := store.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		logger.Info("bootstrap: owner account already exists", "email", email)
		return nil
	}
	if err != nil && !errors.Is(err, domain.ErrTeamMemberNotFound) {
		return fmt.Errorf("bootstrap: checking for existing owner: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bootstrap: hashing owner password: %w", err)
	}

	name := cfg.OwnerName
	if name == "" {
		name = "Owner"
	}

	now := time.Now().UTC()
	member := &domain.TeamMember{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Role:         domain.TeamRoleOwner,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := store.Create(ctx, member); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			// Another instance won the race; treat it as already done.
			logger.Info("bootstrap: owner account already exists", "email", email)
			return nil
		}
		return fmt.Errorf("bootstrap: creating owner account: %w", err)
	}

	logger.Info("bootstrap: owner account created", "email", email, "member_id", member.ID)
	return nil
}
