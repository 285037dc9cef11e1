// Package adapter persists users and the external accounts linked to them.
package adapter

import (
	"context"
	"errors"

	"github.com/iMedia24/workplacify/internal/auth"
)

var (
	ErrNotFound            = errors.New("adapter: not found")
	ErrUnknownAccountField = errors.New("adapter: unknown account field")
)

// Adapter is the storage contract the sign-in flow runs against.
type Adapter interface {
	CreateUser(ctx context.Context, user auth.User) (*auth.User, error)
	GetUser(ctx context.Context, id string) (*auth.User, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
	GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*auth.User, error)

	// LinkAccount associates an external account with account["userId"].
	LinkAccount(ctx context.Context, account auth.Account) error

	// CreateUserAndLink creates user and links account to it atomically:
	// when linking fails no user is left behind.
	CreateUserAndLink(ctx context.Context, user auth.User, account auth.Account) (*auth.User, error)
}
