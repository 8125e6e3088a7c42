package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/auth"
	"rustic-lights-backend/internal/config"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMaker() *auth.Maker {
	return auth.NewMaker(config.JWT{
		Secret:   "test-secret",
		Issuer:   "rustic-lights",
		Audience: "rustic-lights-api",
		Realm:    "rustic-lights",
	})
}

func runAuth(t *testing.T, maker *auth.Maker, blacklist *auth.Blacklist, authorization string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(maker, blacklist)(func(c echo.Context) error { return nil })
	return c, rec, handler(c)
}

func TestAuth_SetsUserID(t *testing.T) {
	maker := testMaker()
	userID := uuid.New()
	pair, err := maker.TokenPair(userID, "user@example.com")
	require.NoError(t, err)

	c, _, err := runAuth(t, maker, auth.NewBlacklist(), "Bearer "+pair.AccessToken)
	require.NoError(t, err)

	got, err := UserID(c)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, pair.AccessToken, c.Get(ContextKeyToken))
}

func TestAuth_MissingTokenChallengesWithRealm(t *testing.T) {
	_, rec, err := runAuth(t, testMaker(), auth.NewBlacklist(), "")

	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, `Bearer realm="rustic-lights"`, rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestAuth_RevokedToken(t *testing.T) {
	maker := testMaker()
	pair, err := maker.TokenPair(uuid.New(), "user@example.com")
	require.NoError(t, err)

	blacklist := auth.NewBlacklist()
	blacklist.Add(pair.AccessToken)

	_, rec, err := runAuth(t, maker, blacklist, "Bearer "+pair.AccessToken)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestAuth_ForgedToken(t *testing.T) {
	other := auth.NewMaker(config.JWT{
		Secret:   "different-secret",
		Issuer:   "rustic-lights",
		Audience: "rustic-lights-api",
		Realm:    "rustic-lights",
	})
	pair, err := other.TokenPair(uuid.New(), "user@example.com")
	require.NoError(t, err)

	_, _, err = runAuth(t, testMaker(), auth.NewBlacklist(), "Bearer "+pair.AccessToken)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}
