package org

import (
	"context"

	"github.com/iMedia24/workplacify/internal/logger"
)

// Default is the organization a fresh production database starts with.
var Default = Organization{
	Name:        "Your Company",
	Description: "Welcome to your Workplacify workspace. You can customize this organization in the admin panel.",
}

// Seed creates Default unless an organization already exists. It
// returns the organization found or created and whether it was created.
// Running it again is a no-op.
func Seed(ctx context.Context, store Store) (*Organization, bool, error) {
	existing, err := store.FindFirst(ctx)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		logger.Info("database already seeded", map[string]any{
			"organization": existing.Name,
			"invite_code":  existing.InviteCode,
		})
		return existing, false, nil
	}

	created, err := store.Create(ctx, Default)
	if err != nil {
		return nil, false, err
	}

	logger.Info("organization created", map[string]any{
		"organization": created.Name,
		"invite_code":  created.InviteCode,
	})
	return created, true, nil
}
