package mockapi

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"storefront/internal/models"
)

// AddComment seeds a comment by userID on productID.
func (s *Server) AddComment(productID, userID, text string) models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	cm := &models.Comment{ID: s.newID(), Product: productID, User: models.Ref{ID: userID}, Comment: text}
	s.comments[cm.ID] = cm
	return s.comment(cm)
}

// comment returns a copy with the author populated; must be called with
// s.mu held.
func (s *Server) comment(cm *models.Comment) models.Comment {
	out := *cm
	if u, ok := s.users[cm.User.ID]; ok {
		out.User.Name = u.Name
	}
	return out
}

// Bookmarked reports the product ids userID has bookmarked, in order.
func (s *Server) Bookmarked(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bookmarks[userID]...)
}

func ownBookmarks(c echo.Context, userID string) error {
	if uid, admin := caller(c); uid != userID && !admin {
		return fail(http.StatusForbidden, "You can only manage your own bookmarks")
	}
	return nil
}

func (s *Server) listBookmarks(c echo.Context) error {
	userID := c.QueryParam("user")
	if err := ownBookmarks(c, userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.bookmarks[userID]))
	for _, id := range s.bookmarks[userID] {
		if p, ok := s.product(id); ok {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) addBookmark(c echo.Context) error {
	var in models.BookmarkInput
	if err := c.Bind(&in); err != nil || in.User == "" || in.Product == "" {
		return fail(http.StatusBadRequest, "User and product are required")
	}
	if err := ownBookmarks(c, in.User); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.product(in.Product)
	if !ok {
		return fail(http.StatusNotFound, "Product not found")
	}
	if !slices.Contains(s.bookmarks[in.User], in.Product) {
		s.bookmarks[in.User] = append(s.bookmarks[in.User], in.Product)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) removeBookmark(c echo.Context) error {
	userID := c.QueryParam("user")
	if err := ownBookmarks(c, userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookmarks[userID] = without(s.bookmarks[userID], c.Param("id"))
	return c.JSON(http.StatusOK, map[string]string{"message": "Bookmark removed"})
}

func (s *Server) listComments(c echo.Context) error {
	productID := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0)
	for id, cm := range s.comments {
		if cm.Product == productID {
			ids = append(ids, id)
		}
	}
	s.sortByCreation(ids)
	out := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.comment(s.comments[id]))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) addComment(c echo.Context) error {
	var in models.CommentInput
	if err := c.Bind(&in); err != nil || in.Product == "" || in.Comment == "" {
		return fail(http.StatusBadRequest, "Product and comment are required")
	}
	uid, _ := caller(c)
	if in.User != "" && in.User != uid {
		return fail(http.StatusForbidden, "You can only comment as yourself")
	}
	s.mu.Lock()
	_, ok := s.products[in.Product]
	s.mu.Unlock()
	if !ok {
		return fail(http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, s.AddComment(in.Product, uid, in.Comment))
}

func (s *Server) editComment(c echo.Context) error {
	var in models.CommentUpdate
	if err := c.Bind(&in); err != nil || in.Comment == "" {
		return fail(http.StatusBadRequest, "Comment is required")
	}
	uid, _ := caller(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	cm, ok := s.comments[c.Param("id")]
	if !ok {
		return fail(http.StatusNotFound, "Comment not found")
	}
	if cm.User.ID != uid {
		return fail(http.StatusForbidden, "You can only edit your own comments")
	}
	cm.Comment = in.Comment
	return c.JSON(http.StatusOK, s.comment(cm))
}

func (s *Server) deleteComment(c echo.Context) error {
	uid, admin := caller(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	cm, ok := s.comments[c.Param("id")]
	if !ok {
		return fail(http.StatusNotFound, "Comment not found")
	}
	if cm.User.ID != uid && !admin {
		return fail(http.StatusForbidden, "You can only delete your own comments")
	}
	delete(s.comments, cm.ID)
	return c.JSON(http.StatusOK, map[string]string{"message": "Comment deleted"})
}
