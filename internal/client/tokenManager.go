package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/model"
)

// expirySkew treats a cached token as expired slightly early so it cannot
// lapse between Token() and the gateway call that uses it.
const expirySkew = 30 * time.Second

// tokenManager caches the short-lived gateway bearer token. Reads of a
// still-valid token take only the read lock; an expired cache is refreshed
// under the write lock with a double check, so at most one refresh is in
// flight and every waiter receives the refreshed token.
type tokenManager struct {
	httpClient     *http.Client
	grantURL       string
	consumerKey    string
	consumerSecret string

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

func newTokenManager(httpClient *http.Client, grantURL, consumerKey, consumerSecret string) *tokenManager {
	return &tokenManager{
		httpClient:     httpClient,
		grantURL:       grantURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
	}
}

func (m *tokenManager) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	if m.accessToken != "" && time.Now().Before(m.expiresAt) {
		token := m.accessToken
		m.mu.RUnlock()
		return token, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if m.accessToken != "" && time.Now().Before(m.expiresAt) {
		return m.accessToken, nil
	}

	token, expiresIn, err := m.refresh(ctx)
	if err != nil {
		return "", apperr.UpstreamAuth(err)
	}

	m.accessToken = token
	m.expiresAt = time.Now().Add(time.Duration(expiresIn)*time.Second - expirySkew)

	return m.accessToken, nil
}

func (m *tokenManager) refresh(ctx context.Context) (string, int64, error) {
	credentials := base64.StdEncoding.EncodeToString(
		[]byte(m.consumerKey + ":" + m.consumerSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.grantURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+credentials)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}

	var result model.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", 0, fmt.Errorf("decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", 0, fmt.Errorf("token response missing access_token")
	}

	// Daraja returns expires_in as a string of seconds.
	expiresIn, err := strconv.ParseInt(result.ExpiresIn, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("parse expires_in %q: %w", result.ExpiresIn, err)
	}

	return result.AccessToken, expiresIn, nil
}
