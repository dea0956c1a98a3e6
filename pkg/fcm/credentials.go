package fcm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	MessagingScope  = "https://www.googleapis.com/auth/firebase.messaging"
	DefaultTokenURL = "https://oauth2.googleapis.com/token"
	// DefaultTokenTTL is how long an exchanged token is reused; the gateway issues them for 60 minutes.
	DefaultTokenTTL = 50 * time.Minute

	assertionLifetime = time.Hour
	jwtBearerGrant    = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

var nowFunc = time.Now // mockable

// ServiceAccount is the subset of a Google service-account key file we need.
type ServiceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	ProjectID   string `json:"project_id"`
}

// LoadServiceAccount reads and validates a service-account key file.
func LoadServiceAccount(path string) (*ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &CredentialError{Kind: CredentialMissingFile, Err: fmt.Errorf("%s not found", path)}
		}
		return nil, &CredentialError{Kind: CredentialMissingFile, Err: err}
	}

	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, &CredentialError{Kind: CredentialMalformed, Err: err}
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, &CredentialError{Kind: CredentialMalformed, Err: errors.New("client_email and private_key are required")}
	}
	return &sa, nil
}

// signAssertion builds the RS256 JWT presented to the token endpoint.
func (sa *ServiceAccount) signAssertion(audience string, now time.Time) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return "", &CredentialError{Kind: CredentialSigningFailed, Err: err}
	}

	claims := jwt.MapClaims{
		"iss":   sa.ClientEmail,
		"scope": MessagingScope,
		"aud":   audience,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", &CredentialError{Kind: CredentialSigningFailed, Err: err}
	}
	return signed, nil
}

// CredentialProvider obtains bearer tokens for the push gateway and caches them.
type CredentialProvider struct {
	credentialsFile string
	tokenURL        string
	ttl             time.Duration
	cache           TokenCache
	httpClient      *http.Client
	group           singleflight.Group
}

var _ oauth2.TokenSource = (*CredentialProvider)(nil)

type ProviderOption func(*CredentialProvider)

func WithTokenURL(u string) ProviderOption {
	return func(p *CredentialProvider) { p.tokenURL = u }
}

func WithTokenTTL(ttl time.Duration) ProviderOption {
	return func(p *CredentialProvider) { p.ttl = ttl }
}

func WithTokenCache(c TokenCache) ProviderOption {
	return func(p *CredentialProvider) { p.cache = c }
}

func WithHTTPClient(c *http.Client) ProviderOption {
	return func(p *CredentialProvider) { p.httpClient = c }
}

func NewCredentialProvider(credentialsFile string, opts ...ProviderOption) *CredentialProvider {
	p := &CredentialProvider{
		credentialsFile: credentialsFile,
		tokenURL:        DefaultTokenURL,
		ttl:             DefaultTokenTTL,
		cache:           NewMemoryTokenCache(),
		httpClient:      http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token implements oauth2.TokenSource.
func (p *CredentialProvider) Token() (*oauth2.Token, error) {
	return p.token(context.Background())
}

// AccessToken returns a bearer token, exchanging a fresh assertion only on a cache miss.
func (p *CredentialProvider) AccessToken(ctx context.Context) (string, error) {
	tok, err := p.token(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func (p *CredentialProvider) cached(ctx context.Context) (*oauth2.Token, bool) {
	tok, ok := p.cache.Get(ctx)
	if !ok || tok.AccessToken == "" || !nowFunc().Before(tok.Expiry) {
		return nil, false
	}
	return tok, true
}

func (p *CredentialProvider) token(ctx context.Context) (*oauth2.Token, error) {
	if tok, ok := p.cached(ctx); ok {
		return tok, nil
	}

	// The flight is shared, so it must not die with whichever caller started it.
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := p.group.Do("access_token", func() (interface{}, error) {
		if tok, ok := p.cached(flightCtx); ok {
			return tok, nil
		}
		tok, err := p.fetch(flightCtx)
		if err != nil {
			return nil, err
		}
		if err := p.cache.Set(flightCtx, tok); err != nil {
			log.Printf("[FCM] Failed to cache access token: %v", err)
		}
		return tok, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*oauth2.Token), nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (p *CredentialProvider) fetch(ctx context.Context) (*oauth2.Token, error) {
	sa, err := LoadServiceAccount(p.credentialsFile)
	if err != nil {
		log.Printf("[FCM] %v", err)
		return nil, err
	}

	now := nowFunc()
	assertion, err := sa.signAssertion(p.tokenURL, now)
	if err != nil {
		log.Printf("[FCM] %v", err)
		return nil, err
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &CredentialError{Kind: CredentialExchangeFailed, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Printf("[FCM] Token exchange request failed: %v", err)
		return nil, &CredentialError{Kind: CredentialExchangeFailed, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[FCM] Failed to get access token: status %d, body: %s", resp.StatusCode, string(body))
		return nil, &CredentialError{Kind: CredentialExchangeFailed, Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &CredentialError{Kind: CredentialExchangeFailed, Err: fmt.Errorf("decode token response: %w", err)}
	}
	if tr.AccessToken == "" {
		return nil, &CredentialError{Kind: CredentialExchangeFailed, Err: errors.New("token response has no access_token")}
	}

	expiry := now.Add(p.ttl)
	if tr.ExpiresIn > 0 {
		if hard := now.Add(time.Duration(tr.ExpiresIn) * time.Second); hard.Before(expiry) {
			expiry = hard
		}
	}
	tokenType := tr.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	log.Println("[FCM] Obtained access token")
	return &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tokenType,
		Expiry:      expiry,
	}, nil
}
