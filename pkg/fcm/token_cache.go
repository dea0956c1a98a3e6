package fcm

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// TokenCache stores the gateway access token between requests.
// Implementations only store; validity is judged by the CredentialProvider.
type TokenCache interface {
	Get(ctx context.Context) (*oauth2.Token, bool)
	Set(ctx context.Context, token *oauth2.Token) error
}

// MemoryTokenCache keeps the token in process memory.
type MemoryTokenCache struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

func NewMemoryTokenCache() *MemoryTokenCache {
	return &MemoryTokenCache{}
}

func (c *MemoryTokenCache) Get(_ context.Context) (*oauth2.Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil {
		return nil, false
	}
	t := *c.token
	return &t, true
}

func (c *MemoryTokenCache) Set(_ context.Context, token *oauth2.Token) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := *token
	c.token = &t
	return nil
}
