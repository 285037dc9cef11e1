package adapter

import (
	"context"

	"github.com/iMedia24/workplacify/internal/auth"
	"github.com/iMedia24/workplacify/internal/auth/provider/entra"
)

// extExpiresInRaw is how Entra's token endpoint spells the field.
const extExpiresInRaw = "ext_expires_in"

// EntraLinkPatch wraps an Adapter so Entra accounts carry extExpiresIn
// instead of ext_expires_in when linked. Every other operation goes
// straight to the wrapped adapter.
type EntraLinkPatch struct {
	next Adapter
}

var _ Adapter = (*EntraLinkPatch)(nil)

func NewEntraLinkPatch(next Adapter) *EntraLinkPatch {
	return &EntraLinkPatch{next: next}
}

func (p *EntraLinkPatch) LinkAccount(ctx context.Context, account auth.Account) error {
	return p.next.LinkAccount(ctx, renameExtExpiresIn(account))
}

func (p *EntraLinkPatch) CreateUserAndLink(ctx context.Context, user auth.User, account auth.Account) (*auth.User, error) {
	return p.next.CreateUserAndLink(ctx, user, renameExtExpiresIn(account))
}

// renameExtExpiresIn returns account untouched unless it is an Entra
// account carrying ext_expires_in; then it returns a renamed copy.
func renameExtExpiresIn(account auth.Account) auth.Account {
	if account.Provider() != entra.ProviderID {
		return account
	}
	v, ok := account[extExpiresInRaw]
	if !ok {
		return account
	}
	out := account.Clone()
	out[auth.AccountExtExpiresIn] = v
	delete(out, extExpiresInRaw)
	return out
}

func (p *EntraLinkPatch) CreateUser(ctx context.Context, user auth.User) (*auth.User, error) {
	return p.next.CreateUser(ctx, user)
}

func (p *EntraLinkPatch) GetUser(ctx context.Context, id string) (*auth.User, error) {
	return p.next.GetUser(ctx, id)
}

func (p *EntraLinkPatch) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return p.next.GetUserByEmail(ctx, email)
}

func (p *EntraLinkPatch) GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*auth.User, error) {
	return p.next.GetUserByAccount(ctx, provider, providerAccountID)
}
