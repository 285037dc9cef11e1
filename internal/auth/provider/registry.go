package provider

import "fmt"

// Registry holds all configured OAuth providers and allows
// lookup by provider id. It performs no auth logic itself.
type Registry struct {
	providers map[string]OAuthProvider
	order     []string
}

// NewRegistry registers the given OAuth providers by id, keeping
// registration order for listing. A later provider with a duplicate
// id replaces the earlier one.
func NewRegistry(list ...OAuthProvider) *Registry {
	r := &Registry{providers: make(map[string]OAuthProvider, len(list))}
	for _, p := range list {
		if _, dup := r.providers[p.ID()]; !dup {
			r.order = append(r.order, p.ID())
		}
		r.providers[p.ID()] = p
	}
	return r
}

// Get returns the OAuth provider by id or an error if not registered.
func (r *Registry) Get(id string) (OAuthProvider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", id)
	}
	return p, nil
}

// List returns the providers in registration order.
func (r *Registry) List() []OAuthProvider {
	out := make([]OAuthProvider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.providers[id])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}
