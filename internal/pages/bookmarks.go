package pages

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/session"
)

type bookmarksPage struct {
	Cards []productCard
}

func (bookmarksPage) title() string { return "Bookmark" }

func (h *Handler) listBookmarks(c echo.Context) error {
	ctx := c.Request().Context()
	sess := session.From(c)

	var (
		products   []models.Product
		categories []models.Category
	)
	var g errgroup.Group
	g.Go(func() error {
		list, err := h.svc.ListBookmarks(ctx, auth.Token(sess), sess.ID)
		products = list
		return err
	})
	g.Go(func() error {
		categories = h.categoriesOrEmpty(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err, "Failed to load bookmarks.")
		products = nil
	}

	data := bookmarksPage{}
	for _, p := range products {
		data.Cards = append(data.Cards, productCard{
			Product:      p,
			Level:        StockLevelFor(p.Stock),
			ImageURL:     h.svc.ImageURL(p.Image),
			CategoryName: CategoryName(categories, p.Category),
			Bookmarked:   true,
		})
	}
	return c.Render(http.StatusOK, "bookmarks", data)
}

func (h *Handler) removeBookmark(c echo.Context) error {
	sess := session.From(c)
	if err := h.svc.RemoveBookmark(c.Request().Context(), auth.Token(sess), sess.ID, c.Param("id")); err != nil {
		h.fail(c, err, "Failed to update bookmark.")
		return h.redirect(c, "/bookmarks")
	}
	h.notes.Success(c, "Bookmark removed.")
	return h.redirect(c, "/bookmarks")
}
