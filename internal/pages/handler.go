// Package pages serves the storefront's HTML pages. Handlers read the
// session from the request, call the resource clients with the request
// context and either render a template or redirect with a notification.
package pages

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/services"
)

// RateLimiter counts hits per key; the Redis cache client satisfies it.
type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string, max int, window time.Duration) bool
}

type Options struct {
	PageSize       int
	LoginRateLimit int
	// Limiter may be nil, which disables login throttling.
	Limiter RateLimiter
}

type Handler struct {
	svc      *services.ServiceClient
	gw       *auth.Gateway
	guards   *auth.Guards
	notes    *notify.Notifier
	renderer *Renderer

	pageSize   int
	loginLimit int
	limiter    RateLimiter
}

func NewHandler(svc *services.ServiceClient, gw *auth.Gateway, notes *notify.Notifier, opts Options) (*Handler, error) {
	r, err := NewRenderer(notes)
	if err != nil {
		return nil, err
	}
	if opts.PageSize < 1 {
		opts.PageSize = 6
	}
	return &Handler{
		svc:        svc,
		gw:         gw,
		guards:     auth.NewGuards(notes),
		notes:      notes,
		renderer:   r,
		pageSize:   opts.PageSize,
		loginLimit: opts.LoginRateLimit,
		limiter:    opts.Limiter,
	}, nil
}

// Register mounts every page on e and installs the template renderer.
// session.Store.Load must already be in e's middleware chain.
func (h *Handler) Register(e *echo.Echo) {
	e.Renderer = h.renderer
	login := h.guards.RequireLogin
	admin := h.guards.RequireAdmin

	e.GET("/", h.listProducts)
	e.GET("/products/new", h.newProductForm, admin)
	e.POST("/products/new", h.createProduct, admin)
	e.GET("/products/:id/edit", h.editProductForm, admin)
	e.POST("/products/:id/edit", h.updateProduct, admin)
	e.POST("/products/:id/delete", h.deleteProduct, admin)
	e.POST("/products/:id/bookmark", h.toggleBookmark, login)

	e.GET("/products/:id/comment", h.productComments)
	e.POST("/products/:id/comments", h.addComment, login)
	e.POST("/comments/:id/edit", h.editComment, login)
	e.POST("/comments/:id/delete", h.deleteComment, login)

	e.GET("/bookmarks", h.listBookmarks, login)
	e.POST("/bookmarks/:id/remove", h.removeBookmark, login)

	e.GET("/login", h.loginForm)
	e.POST("/login", h.login)
	e.GET("/signup", h.signupForm)
	e.POST("/signup", h.signup)
	e.POST("/logout", h.logout)

	e.GET("/profile", h.profile, login)
	e.POST("/profile", h.updateProfile, login)
	e.POST("/profile/password", h.changePassword, login)

	e.GET("/categories", h.listCategories, admin)
	e.POST("/categories", h.createCategory, admin)
	e.GET("/categories/:id/edit", h.editCategoryForm, admin)
	e.POST("/categories/:id/edit", h.updateCategory, admin)
	e.POST("/categories/:id/delete", h.deleteCategory, admin)
}

func (h *Handler) redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

// fail reports err to the user: a ValidationError verbatim, a backend
// message when there is one, fallback otherwise.
func (h *Handler) fail(c echo.Context, err error, fallback string) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		h.notes.Error(c, verr.Message)
		return
	}
	if !errors.As(err, new(*services.APIError)) {
		logging.FromContext(c.Request().Context()).Warn("page action failed", "error", err)
	}
	h.notes.Error(c, services.ErrorMessage(err, fallback))
}

// categoriesOrEmpty degrades a failed category read to an empty list.
func (h *Handler) categoriesOrEmpty(ctx context.Context) []models.Category {
	cats, err := h.svc.ListCategories(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("categories unavailable, rendering without them", "error", err)
		return []models.Category{}
	}
	return cats
}
