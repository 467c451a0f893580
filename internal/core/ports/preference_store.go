package ports

import "context"

// PreferenceStore is the durable key-value medium behind the session store.
// Implementations must apply each Get, Set and Delete call atomically.
type PreferenceStore interface {
	// Get returns the present keys among keys; absent keys are left out.
	Get(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}
