// Package org holds organizations, the workspaces users join with an
// invite code.
package org

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iMedia24/workplacify/internal/db"
	"github.com/iMedia24/workplacify/internal/utils"
)

const inviteCodeLength = 10

type Organization struct {
	ID          string
	Name        string
	Description string
	InviteCode  string
}

type Store interface {
	// FindFirst returns any organization, or (nil, nil) when there is none.
	FindFirst(ctx context.Context) (*Organization, error)
	// Create inserts o, filling in ID and InviteCode when empty.
	Create(ctx context.Context, o Organization) (*Organization, error)
}

type SQLStore struct {
	db *db.DB
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(db *db.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) FindFirst(ctx context.Context) (*Organization, error) {
	var (
		o           Organization
		description sql.NullString
	)
	err := s.db.
		Select("id", "name", "description", "invite_code").
		From("organizations").
		OrderBy("created_at", "id").
		Limit(1).
		QueryRowContext(ctx).
		Scan(&o.ID, &o.Name, &description, &o.InviteCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("org: find first: %w", err)
	}

	o.Description = description.String
	return &o, nil
}

func (s *SQLStore) Create(ctx context.Context, o Organization) (*Organization, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.InviteCode == "" {
		code, err := NewInviteCode()
		if err != nil {
			return nil, err
		}
		o.InviteCode = code
	}

	_, err := s.db.Insert("organizations").
		Columns("id", "name", "description", "invite_code").
		Values(o.ID, o.Name, o.Description, o.InviteCode).
		ExecContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("org: create: %w", err)
	}
	return &o, nil
}

// NewInviteCode generates a code new members use to join an organization.
func NewInviteCode() (string, error) {
	code, err := utils.RandomCode(inviteCodeLength)
	if err != nil {
		return "", fmt.Errorf("org: invite code: %w", err)
	}
	return code, nil
}
