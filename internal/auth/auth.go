// Package auth answers "who is this and what may they do" for the pages.
// The checks here gate what is rendered and which calls are attempted; the
// backend still enforces its own rules.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/services"
	"storefront/internal/session"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Backend is the part of the resource client the gateway needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Signup(ctx context.Context, name, email, password string) (*models.Session, error)
}

type Gateway struct {
	backend Backend
	store   *session.Store
}

func NewGateway(backend Backend, store *session.Store) *Gateway {
	return &Gateway{backend: backend, store: store}
}

// Login authenticates against the backend and, on success only, writes the
// session cookie.
func (g *Gateway) Login(ctx context.Context, w http.ResponseWriter, email, password string) (*models.Session, error) {
	sess, err := g.backend.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}
	if err := g.store.Set(w, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (g *Gateway) Signup(ctx context.Context, w http.ResponseWriter, name, email, password string) (*models.Session, error) {
	sess, err := g.backend.Signup(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}
	if err := g.store.Set(w, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (g *Gateway) Logout(w http.ResponseWriter) {
	g.store.Clear(w)
}

// Refresh rewrites the cookie after the user's own profile changed. The
// original expiry is kept.
func (g *Gateway) Refresh(w http.ResponseWriter, sess *models.Session, u *models.User) error {
	if sess == nil {
		return ErrNotLoggedIn
	}
	next := *sess
	if u.Name != "" {
		next.Name = u.Name
	}
	if u.Email != "" {
		next.Email = u.Email
	}
	if err := g.store.Set(w, &next); err != nil {
		return err
	}
	*sess = next
	return nil
}

func IsLoggedIn(s *models.Session) bool {
	return s != nil && s.ID != ""
}

func IsAdmin(s *models.Session) bool {
	return IsLoggedIn(s) && s.Role == models.RoleAdmin
}

func Token(s *models.Session) string {
	if s == nil {
		return ""
	}
	return s.Token
}

// CanDeleteComment: the author, or any admin.
func CanDeleteComment(s *models.Session, c models.Comment) bool {
	return IsAdmin(s) || CanEditComment(s, c)
}

// CanEditComment: the author only.
func CanEditComment(s *models.Session, c models.Comment) bool {
	return IsLoggedIn(s) && c.User.ID == s.ID
}

// Guards wrap page handlers. They expect session.Store.Load to have run.
type Guards struct {
	notes *notify.Notifier
}

func NewGuards(notes *notify.Notifier) *Guards {
	return &Guards{notes: notes}
}

func (g *Guards) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsLoggedIn(session.From(c)) {
			g.notes.Info(c, "Please log in to continue.")
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return next(c)
	}
}

func (g *Guards) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(session.From(c)) {
			g.notes.Error(c, "Only administrators can do that.")
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return next(c)
	}
}

var _ Backend = (*services.ServiceClient)(nil)
