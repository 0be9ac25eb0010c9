package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func requestWith(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		r.AddCookie(ck)
	}
	return r
}

func TestSetThenGet(t *testing.T) {
	store := NewStore("secret", 0, false)
	rec := httptest.NewRecorder()

	in := &models.Session{ID: "u1", Name: "Ann", Email: "ann@example.com", Role: "admin", Token: "tkn"}
	require.NoError(t, store.Set(rec, in))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, CookieName, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.InDelta(t, DefaultTTL.Seconds(), float64(cookies[0].MaxAge), 5)

	got, ok := store.Get(requestWith(cookies))
	require.True(t, ok)
	require.Equal(t, "u1", got.ID)
	require.Equal(t, "Ann", got.Name)
	require.Equal(t, "admin", got.Role)
	require.Equal(t, "tkn", got.Token)
	require.WithinDuration(t, in.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestGetAbsent(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	_, ok := store.Get(requestWith(nil))
	require.False(t, ok)
}

func TestTamperedCookieIsAbsent(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	rec := httptest.NewRecorder()
	require.NoError(t, store.Set(rec, &models.Session{ID: "u1", Role: "user"}))

	other := NewStore("another-secret", time.Hour, false)
	_, ok := other.Get(requestWith(rec.Result().Cookies()))
	require.False(t, ok)

	_, ok = store.Get(requestWith([]*http.Cookie{{Name: CookieName, Value: "not-a-token"}}))
	require.False(t, ok)
}

func TestExpiredCookieIsAbsent(t *testing.T) {
	now := time.Now()
	store := NewStore("secret", time.Hour, false)
	store.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	require.NoError(t, store.Set(rec, &models.Session{ID: "u1"}))

	store.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, ok := store.Get(requestWith(rec.Result().Cookies()))
	require.False(t, ok)
}

func TestSetKeepsExistingExpiry(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	exp := time.Now().Add(10 * time.Minute).Truncate(time.Second)

	rec := httptest.NewRecorder()
	require.NoError(t, store.Set(rec, &models.Session{ID: "u1", ExpiresAt: exp}))

	got, ok := store.Get(requestWith(rec.Result().Cookies()))
	require.True(t, ok)
	require.True(t, exp.Equal(got.ExpiresAt))
}

func TestSetRejectsEmptySession(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	require.Error(t, store.Set(httptest.NewRecorder(), nil))
	require.Error(t, store.Set(httptest.NewRecorder(), &models.Session{}))
}

func TestClearExpiresCookie(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	rec := httptest.NewRecorder()
	store.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "", cookies[0].Value)
	require.Less(t, cookies[0].MaxAge, 0)
}

func TestLoadMiddleware(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	rec := httptest.NewRecorder()
	require.NoError(t, store.Set(rec, &models.Session{ID: "u1", Name: "Ann"}))

	e := echo.New()
	var seen *models.Session
	h := store.Load(func(c echo.Context) error {
		seen = From(c)
		return nil
	})

	c := e.NewContext(requestWith(rec.Result().Cookies()), httptest.NewRecorder())
	require.NoError(t, h(c))
	require.NotNil(t, seen)
	require.Equal(t, "Ann", seen.Name)

	c = e.NewContext(requestWith(nil), httptest.NewRecorder())
	require.NoError(t, h(c))
	require.Nil(t, From(c))
}
