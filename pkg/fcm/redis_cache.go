package fcm

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

const accessTokenKey = "fcm:access_token"

type cachedToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Expiry      time.Time `json:"expiry"`
}

// RedisTokenCache shares the access token between every process using the same redis.
type RedisTokenCache struct {
	client *redis.Client
	key    string
}

func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{
		client: client,
		key:    accessTokenKey,
	}
}

// Get returns the cached token, or (nil, false) if not found or unreadable.
func (c *RedisTokenCache) Get(ctx context.Context) (*oauth2.Token, bool) {
	data, err := c.client.Get(ctx, c.key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[TokenCache] Redis get failed: %v", err)
		return nil, false
	}
	var ct cachedToken
	if err := json.Unmarshal([]byte(data), &ct); err != nil {
		log.Printf("[TokenCache] Dropping unreadable cache entry: %v", err)
		return nil, false
	}
	return &oauth2.Token{
		AccessToken: ct.AccessToken,
		TokenType:   ct.TokenType,
		Expiry:      ct.Expiry,
	}, true
}

// Set stores the token with a TTL matching its expiry.
func (c *RedisTokenCache) Set(ctx context.Context, token *oauth2.Token) error {
	ttl := time.Until(token.Expiry)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(cachedToken{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Expiry:      token.Expiry,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, data, ttl).Err()
}
