package resolver

import (
	"context"
	"errors"

	"github.com/iMedia24/workplacify/internal/auth"
	"github.com/iMedia24/workplacify/internal/auth/adapter"
	"github.com/iMedia24/workplacify/internal/logger"
)

var (
	// ErrIncompleteIdentity is returned for identities without a subject.
	ErrIncompleteIdentity = errors.New("identity has no external id")

	// ErrAccountNotLinked is returned when the email already belongs to a
	// user who signed in with a different account.
	ErrAccountNotLinked = errors.New("email is registered with another account")
)

// AdapterResolver resolves identities through the persistence adapter.
type AdapterResolver struct {
	adapter adapter.Adapter
}

func NewAdapterResolver(a adapter.Adapter) *AdapterResolver {
	return &AdapterResolver{adapter: a}
}

func (r *AdapterResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
	account auth.Account,
) (*auth.User, error) {

	if identity == nil || identity.ID == "" {
		return nil, ErrIncompleteIdentity
	}

	// 1. Known account
	user, err := r.adapter.GetUserByAccount(ctx, identity.Provider, identity.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, adapter.ErrNotFound) {
		return nil, err
	}

	// 2. The email is taken by a user who never linked this account
	_, err = r.adapter.GetUserByEmail(ctx, identity.Email)
	if err == nil {
		logger.Warn("sign-in refused, account not linked", map[string]any{
			"provider": identity.Provider,
		})
		return nil, ErrAccountNotLinked
	}
	if !errors.Is(err, adapter.ErrNotFound) {
		return nil, err
	}

	// 3. New user, linked in the same write
	link := account.Clone()
	if link.Provider() == "" {
		link[auth.AccountProvider] = identity.Provider
	}
	if _, ok := link[auth.AccountProviderAccountID]; !ok {
		link[auth.AccountProviderAccountID] = identity.ID
	}

	user, err = r.adapter.CreateUserAndLink(ctx, auth.User{
		Name:          identity.Name,
		Email:         identity.Email,
		EmailVerified: identity.EmailVerified,
		Image:         identity.Image,
	}, link)
	if err != nil {
		return nil, err
	}

	logger.Info("user created", map[string]any{
		"user_id":  user.ID,
		"provider": identity.Provider,
	})

	return user, nil
}
