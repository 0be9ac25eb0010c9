package pages

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/session"
)

type commentsPage struct {
	Product      models.Product
	Level        StockLevel
	ImageURL     string
	CategoryName string
	Comments     []models.Comment
}

func (p commentsPage) title() string { return p.Product.Name }

func (h *Handler) productComments(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var (
		product    *models.Product
		productErr error
		comments   []models.Comment
		commentErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		product, productErr = h.svc.GetProduct(ctx, id)
		return nil
	})
	g.Go(func() error {
		comments, commentErr = h.svc.ListComments(ctx, id)
		return nil
	})
	_ = g.Wait()

	if productErr != nil {
		h.fail(c, productErr, "Product not found.")
		return h.redirect(c, "/")
	}
	if commentErr != nil {
		h.fail(c, commentErr, "Failed to load comments.")
		comments = []models.Comment{}
	}

	return c.Render(http.StatusOK, "comments", commentsPage{
		Product:      *product,
		Level:        StockLevelFor(product.Stock),
		ImageURL:     h.svc.ImageURL(product.Image),
		CategoryName: CategoryName(nil, product.Category),
		Comments:     comments,
	})
}

func commentsPath(productID string) string {
	return "/products/" + productID + "/comment"
}

func (h *Handler) addComment(c echo.Context) error {
	sess := session.From(c)
	productID := c.Param("id")
	text := c.FormValue("comment")

	if err := ValidateComment(text); err != nil {
		h.fail(c, err, "")
		return h.redirect(c, commentsPath(productID))
	}
	_, err := h.svc.AddComment(c.Request().Context(), auth.Token(sess), models.CommentInput{
		Product: productID,
		User:    sess.ID,
		Comment: text,
	})
	if err != nil {
		h.fail(c, err, "Failed to add comment.")
		return h.redirect(c, commentsPath(productID))
	}
	h.notes.Success(c, "Comment added!")
	return h.redirect(c, commentsPath(productID))
}

// postedComment rebuilds the comment a form refers to from its hidden author
// field, so ownership is checked without a backend read. The backend checks
// again on write.
func postedComment(c echo.Context) models.Comment {
	return models.Comment{
		ID:   c.Param("id"),
		User: models.Ref{ID: c.FormValue("author")},
	}
}

func (h *Handler) editComment(c echo.Context) error {
	sess := session.From(c)
	back := commentsPath(c.FormValue("product"))
	text := c.FormValue("comment")

	if err := ValidateComment(text); err != nil {
		h.fail(c, err, "")
		return h.redirect(c, back)
	}
	cm := postedComment(c)
	if !auth.CanEditComment(sess, cm) {
		h.notes.Error(c, "You can only edit your own comments.")
		return h.redirect(c, back)
	}
	if _, err := h.svc.EditComment(c.Request().Context(), auth.Token(sess), cm.ID, text); err != nil {
		h.fail(c, err, "Failed to update comment.")
		return h.redirect(c, back)
	}
	h.notes.Success(c, "Comment updated.")
	return h.redirect(c, back)
}

func (h *Handler) deleteComment(c echo.Context) error {
	sess := session.From(c)
	back := commentsPath(c.FormValue("product"))

	cm := postedComment(c)
	if !auth.CanDeleteComment(sess, cm) {
		h.notes.Error(c, "You can only delete your own comments.")
		return h.redirect(c, back)
	}
	if err := h.svc.DeleteComment(c.Request().Context(), auth.Token(sess), cm.ID); err != nil {
		h.fail(c, err, "Failed to delete comment.")
		return h.redirect(c, back)
	}
	h.notes.Success(c, "Comment deleted.")
	return h.redirect(c, back)
}
