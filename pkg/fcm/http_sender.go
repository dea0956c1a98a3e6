package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

const DefaultEndpoint = "https://fcm.googleapis.com"

// AccessTokenSource is satisfied by CredentialProvider.
type AccessTokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// HTTPSender talks to the FCM HTTP v1 API directly.
type HTTPSender struct {
	credentials AccessTokenSource
	sendURL     string
	httpClient  *http.Client
}

func NewHTTPSender(credentials AccessTokenSource, endpoint, projectID string, httpClient *http.Client) *HTTPSender {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPSender{
		credentials: credentials,
		sendURL:     fmt.Sprintf("%s/v1/projects/%s/messages:send", strings.TrimRight(endpoint, "/"), projectID),
		httpClient:  httpClient,
	}
}

// Send delivers one message. Without an access token the gateway is not contacted.
func (s *HTTPSender) Send(ctx context.Context, msg Message) error {
	accessToken, err := s.credentials.AccessToken(ctx)
	if err != nil {
		log.Printf("[FCM] Could not get access token: %v", err)
		return err
	}

	payload, err := json.Marshal(buildWireMessage(msg))
	if err != nil {
		return fmt.Errorf("failed to encode FCM message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.sendURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build FCM request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Printf("[FCM] Message sent successfully to token: %s", shortToken(msg.Token))
		return nil
	}

	log.Printf("[FCM] Gateway error: %s", string(body))
	var errBody gatewayErrorBody
	if err := json.Unmarshal(body, &errBody); err != nil {
		return newDeliveryError(resp.StatusCode, "", string(body))
	}
	return newDeliveryError(resp.StatusCode, errBody.errorCode(), errBody.Error.Message)
}
