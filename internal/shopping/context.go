package shopping

import "context"

type ctxKey struct{}

// WithManager scopes m to ctx.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext returns the manager scoped to ctx, or ErrNotProvisioned.
func FromContext(ctx context.Context) (*Manager, error) {
	m, ok := ctx.Value(ctxKey{}).(*Manager)
	if !ok || m == nil || !m.provisioned {
		return nil, ErrNotProvisioned
	}
	return m, nil
}

// MustFromContext is FromContext for code paths where a missing manager is
// a wiring bug.
func MustFromContext(ctx context.Context) *Manager {
	m, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return m
}
