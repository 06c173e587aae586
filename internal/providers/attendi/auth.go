package attendi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AuthConfig identifies the caller towards the authentication endpoint.
type AuthConfig struct {
	APIBaseURL  string
	APIKey      string
	CustomerKey string
	UserID      string
	UnitID      string

	HTTPClient *http.Client
}

// AuthClient fetches short-lived bearer tokens for the streaming backend.
type AuthClient struct {
	cfg    AuthConfig
	client *http.Client
}

func NewAuthClient(cfg AuthConfig) *AuthClient {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &AuthClient{cfg: cfg, client: client}
}

type authRequest struct {
	APIKey      string `json:"apiKey"`
	CustomerKey string `json:"customerKey,omitempty"`
	UserID      string `json:"userId,omitempty"`
	UnitID      string `json:"unitId,omitempty"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Authenticate exchanges the API key for a bearer token.
func (c *AuthClient) Authenticate(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", errors.New("transcription API key is not configured")
	}

	body, err := json.Marshal(authRequest{
		APIKey:      c.cfg.APIKey,
		CustomerKey: c.cfg.CustomerKey,
		UserID:      c.cfg.UserID,
		UnitID:      c.cfg.UnitID,
	})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(strings.TrimSpace(c.cfg.APIBaseURL), "/") + "/speech/authenticate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build authentication request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("authentication request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("authentication rejected with status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded authResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("malformed authentication response: %w", err)
	}
	if decoded.Token == "" {
		return "", errors.New("authentication response contained no token")
	}
	return decoded.Token, nil
}
