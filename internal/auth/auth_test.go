package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/session"
)

type fakeBackend struct {
	sess *models.Session
	err  error
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return f.sess, f.err
}

func (f *fakeBackend) Signup(ctx context.Context, name, email, password string) (*models.Session, error) {
	return f.sess, f.err
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestPredicates(t *testing.T) {
	admin := &models.Session{ID: "a", Role: models.RoleAdmin, Token: "ta"}
	user := &models.Session{ID: "u", Role: "user", Token: "tu"}

	require.False(t, IsLoggedIn(nil))
	require.False(t, IsLoggedIn(&models.Session{}))
	require.True(t, IsLoggedIn(user))

	require.False(t, IsAdmin(nil))
	require.False(t, IsAdmin(user))
	require.True(t, IsAdmin(admin))

	require.Empty(t, Token(nil))
	require.Equal(t, "tu", Token(user))
}

func TestCommentGates(t *testing.T) {
	admin := &models.Session{ID: "a", Role: models.RoleAdmin}
	author := &models.Session{ID: "u", Role: "user"}
	other := &models.Session{ID: "o", Role: "user"}
	c := models.Comment{ID: "c1", User: models.Ref{ID: "u"}}

	require.True(t, CanDeleteComment(author, c))
	require.True(t, CanDeleteComment(admin, c))
	require.False(t, CanDeleteComment(other, c))
	require.False(t, CanDeleteComment(nil, c))

	require.True(t, CanEditComment(author, c))
	require.False(t, CanEditComment(admin, c))
	require.False(t, CanEditComment(nil, models.Comment{}))
}

func TestLoginSetsCookieOnlyOnSuccess(t *testing.T) {
	store := session.NewStore("secret", 0, false)

	rec := httptest.NewRecorder()
	g := NewGateway(&fakeBackend{sess: &models.Session{ID: "u1", Name: "Ann", Token: "tkn"}}, store)
	sess, err := g.Login(context.Background(), rec, "ann@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "u1", sess.ID)
	require.NotNil(t, sessionCookie(rec))

	rec = httptest.NewRecorder()
	g = NewGateway(&fakeBackend{err: errors.New("bad credentials")}, store)
	_, err = g.Login(context.Background(), rec, "ann@example.com", "nope")
	require.Error(t, err)
	require.Nil(t, sessionCookie(rec))
}

func TestLogoutClearsCookie(t *testing.T) {
	g := NewGateway(&fakeBackend{}, session.NewStore("secret", 0, false))
	rec := httptest.NewRecorder()
	g.Logout(rec)
	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	require.Empty(t, ck.Value)
	require.Less(t, ck.MaxAge, 0)
}

func TestRefreshKeepsExpiry(t *testing.T) {
	store := session.NewStore("secret", 0, false)
	g := NewGateway(&fakeBackend{}, store)

	rec := httptest.NewRecorder()
	sess := &models.Session{ID: "u1", Name: "Ann", Email: "ann@example.com"}
	require.NoError(t, store.Set(rec, sess))
	exp := sess.ExpiresAt

	rec = httptest.NewRecorder()
	require.NoError(t, g.Refresh(rec, sess, &models.User{Name: "Annie"}))
	require.Equal(t, "Annie", sess.Name)
	require.Equal(t, "ann@example.com", sess.Email)
	require.Equal(t, exp, sess.ExpiresAt)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(rec))
	got, ok := store.Get(req)
	require.True(t, ok)
	require.Equal(t, "Annie", got.Name)

	require.ErrorIs(t, g.Refresh(rec, nil, &models.User{}), ErrNotLoggedIn)
}

func TestGuards(t *testing.T) {
	guards := NewGuards(notify.New("flash-secret", false))
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	cases := []struct {
		name     string
		guard    echo.MiddlewareFunc
		sess     *models.Session
		status   int
		location string
	}{
		{"login: anonymous", guards.RequireLogin, nil, http.StatusSeeOther, "/login"},
		{"login: user", guards.RequireLogin, &models.Session{ID: "u"}, http.StatusOK, ""},
		{"admin: anonymous", guards.RequireAdmin, nil, http.StatusSeeOther, "/"},
		{"admin: user", guards.RequireAdmin, &models.Session{ID: "u", Role: "user"}, http.StatusSeeOther, "/"},
		{"admin: admin", guards.RequireAdmin, &models.Session{ID: "a", Role: models.RoleAdmin}, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)
			if tc.sess != nil {
				session.Put(c, tc.sess)
			}
			require.NoError(t, tc.guard(ok)(c))
			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, tc.location, rec.Header().Get(echo.HeaderLocation))
		})
	}
}
