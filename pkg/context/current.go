package context

import (
	"context"
	"sync"
)

// Current holds request-scoped values such as the request id and the
// authenticated user id. It is safe for concurrent use.
type Current struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewCurrent() *Current {
	return &Current{
		data: make(map[string]any),
	}
}

func (c *Current) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *Current) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[key]
}

func (c *Current) GetString(key string) (string, bool) {
	str, ok := c.Get(key).(string)
	return str, ok
}

func (c *Current) GetInt(key string) (int, bool) {
	i, ok := c.Get(key).(int)
	return i, ok
}

type contextKey string

const currentKey contextKey = "current"

func WithCurrent(ctx context.Context, current *Current) context.Context {
	return context.WithValue(ctx, currentKey, current)
}

func FromContext(ctx context.Context) (*Current, bool) {
	current, ok := ctx.Value(currentKey).(*Current)
	return current, ok
}

func GetCurrent(ctx context.Context) *Current {
	if current, ok := FromContext(ctx); ok {
		return current
	}

	return NewCurrent()
}
