package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/grupo8/reparafacil/internal/core/ports"
)

// Preferences stores every key of a namespace as a field of one Redis hash,
// so multi-key writes and deletes are single commands.
type Preferences struct {
	client *redis.Client
	key    string
}

var _ ports.PreferenceStore = (*Preferences)(nil)

// NewPreferences returns a store backed by the hash prefs:<namespace>.
func NewPreferences(client *redis.Client, namespace string) *Preferences {
	return &Preferences{client: client, key: "prefs:" + namespace}
}

func (p *Preferences) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := p.client.HMGet(ctx, p.key, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("hmget %s: %w", p.key, err)
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

func (p *Preferences) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	if err := p.client.HSet(ctx, p.key, values).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", p.key, err)
	}
	return nil
}

func (p *Preferences) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := p.client.HDel(ctx, p.key, keys...).Err(); err != nil {
		return fmt.Errorf("hdel %s: %w", p.key, err)
	}
	return nil
}
