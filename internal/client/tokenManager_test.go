package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rustic-lights-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grantServer(t *testing.T, calls *atomic.Int64, token string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		// simulate upstream latency so concurrent callers really overlap
		time.Sleep(20 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": token,
			"expires_in":   "3599",
		})
	}))
}

func TestToken_ColdCacheRefreshesOnce(t *testing.T) {
	var calls atomic.Int64
	srv := grantServer(t, &calls, "tok-1")
	defer srv.Close()

	m := newTokenManager(srv.Client(), srv.URL, "key", "secret")

	const workers = 20
	tokens := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := m.Token(context.Background())
			assert.NoError(t, err)
			tokens[i] = token
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent cold reads must share one refresh")
	for _, token := range tokens {
		assert.Equal(t, "tok-1", token)
	}
}

func TestToken_ValidTokenIsNotRefreshed(t *testing.T) {
	var calls atomic.Int64
	srv := grantServer(t, &calls, "tok-1")
	defer srv.Close()

	m := newTokenManager(srv.Client(), srv.URL, "key", "secret")

	for i := 0; i < 5; i++ {
		token, err := m.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token)
	}
	assert.Equal(t, int64(1), calls.Load())
}

func TestToken_ExpiredTokenIsRefreshed(t *testing.T) {
	var calls atomic.Int64
	srv := grantServer(t, &calls, "tok-2")
	defer srv.Close()

	m := newTokenManager(srv.Client(), srv.URL, "key", "secret")
	m.accessToken = "stale"
	m.expiresAt = time.Now().Add(-time.Minute)

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
	assert.Equal(t, int64(1), calls.Load())
}

func TestToken_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := newTokenManager(srv.Client(), srv.URL, "key", "bad-secret")

	_, err := m.Token(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstreamAuth, apperr.KindOf(err))
}

func TestToken_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"unexpected": "shape"})
	}))
	defer srv.Close()

	m := newTokenManager(srv.Client(), srv.URL, "key", "secret")

	_, err := m.Token(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstreamAuth, apperr.KindOf(err))

	// no stale token is substituted
	assert.Empty(t, m.accessToken)
}
