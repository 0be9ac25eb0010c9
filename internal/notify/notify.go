// Package notify carries short user-facing messages across the
// post/redirect/get cycle using flash values in a signed cookie.
package notify

import (
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"storefront/internal/telemetry"
)

const (
	cookieName = "flash"
	contextKey = "flash-session"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	Level   Level
	Message string
}

func init() {
	gob.Register(Notification{})
}

type Notifier struct {
	store *sessions.CookieStore
}

func New(secret string, secure bool) *Notifier {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Notifier{store: store}
}

func (n *Notifier) Success(c echo.Context, msg string) { n.add(c, LevelSuccess, msg) }
func (n *Notifier) Error(c echo.Context, msg string)   { n.add(c, LevelError, msg) }
func (n *Notifier) Info(c echo.Context, msg string)    { n.add(c, LevelInfo, msg) }

func (n *Notifier) add(c echo.Context, level Level, msg string) {
	telemetry.ObserveNotification(string(level))
	sess := n.session(c)
	sess.AddFlash(Notification{Level: level, Message: msg})
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Warn("flash save failed", "error", err)
	}
}

// Pop returns every pending notification, including ones added earlier in
// this request, and clears them.
func (n *Notifier) Pop(c echo.Context) []Notification {
	sess := n.session(c)
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Warn("flash save failed", "error", err)
	}
	out := make([]Notification, 0, len(flashes))
	for _, f := range flashes {
		if note, ok := f.(Notification); ok {
			out = append(out, note)
		}
	}
	return out
}

func (n *Notifier) session(c echo.Context) *sessions.Session {
	if sess, ok := c.Get(contextKey).(*sessions.Session); ok {
		return sess
	}
	// A cookie we cannot decode is replaced by a fresh one.
	sess, err := n.store.Get(c.Request(), cookieName)
	if err != nil {
		slog.Debug("discarding unreadable flash cookie", "error", err)
	}
	c.Set(contextKey, sess)
	return sess
}
