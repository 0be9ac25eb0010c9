package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestFlashSurvivesRedirect(t *testing.T) {
	n := New("flash-secret", false)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/login", nil), rec)
	n.Success(c, "Welcome back!")
	require.NoError(t, c.Redirect(http.StatusSeeOther, "/"))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		next.AddCookie(ck)
	}
	c2 := e.NewContext(next, httptest.NewRecorder())
	notes := n.Pop(c2)
	require.Equal(t, []Notification{{Level: LevelSuccess, Message: "Welcome back!"}}, notes)
}

func TestPopIncludesNotesFromSameRequestAndClears(t *testing.T) {
	n := New("flash-secret", false)
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/products/1/comments", nil), httptest.NewRecorder())

	n.Error(c, "Comment cannot be empty.")
	n.Info(c, "second")
	notes := n.Pop(c)
	require.Len(t, notes, 2)
	require.Equal(t, LevelError, notes[0].Level)
	require.Equal(t, "Comment cannot be empty.", notes[0].Message)

	require.Empty(t, n.Pop(c))
}

func TestGarbageCookieIsIgnored(t *testing.T) {
	n := New("flash-secret", false)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "garbage"})
	c := e.NewContext(req, httptest.NewRecorder())
	require.Empty(t, n.Pop(c))
}
