package fcm

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"lms-backend/pkg/config"

	"github.com/redis/go-redis/v9"
)

const gatewayTimeout = 15 * time.Second

// NewTokenCacheFromConfig returns the redis cache when TOKEN_CACHE=redis, otherwise the in-process one.
func NewTokenCacheFromConfig(cfg *config.Config) TokenCache {
	if cfg.TokenCache != "redis" {
		return NewMemoryTokenCache()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	log.Printf("[TokenCache] Using redis at %s", cfg.RedisAddr)
	return NewRedisTokenCache(client)
}

// NewSenderFromConfig builds the sender selected by PUSH_DRIVER.
// A missing credential file is not fatal: each send then fails with a CredentialError.
func NewSenderFromConfig(ctx context.Context, cfg *config.Config) (Sender, error) {
	projectID := cfg.FirebaseProjectID
	if projectID == "" {
		if sa, err := LoadServiceAccount(cfg.FirebaseCredentials); err == nil {
			projectID = sa.ProjectID
		} else {
			log.Printf("[FCM] %v", err)
		}
	}

	switch cfg.PushDriver {
	case "firebase":
		return NewFirebaseSender(ctx, cfg.FirebaseCredentials, projectID)
	case "http", "":
		httpClient := &http.Client{Timeout: gatewayTimeout}
		provider := NewCredentialProvider(cfg.FirebaseCredentials,
			WithTokenURL(cfg.FCMTokenURL),
			WithTokenTTL(cfg.FCMTokenTTL),
			WithTokenCache(NewTokenCacheFromConfig(cfg)),
			WithHTTPClient(httpClient),
		)
		return NewHTTPSender(provider, cfg.FCMEndpoint, projectID, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown PUSH_DRIVER %q", cfg.PushDriver)
	}
}
