// Package mockapi is an in-memory stand-in for the stock management API.
// It serves the same routes the storefront consumes, issues HS256 bearer
// tokens and enforces ownership rules server-side, which makes it usable
// both for local development and as the backend in tests.
package mockapi

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
)

type user struct {
	models.User
	hash []byte
}

type record struct {
	seq int
}

type Server struct {
	mu     sync.Mutex
	secret []byte
	cost   int
	seq    int

	users      map[string]*user
	categories map[string]*models.Category
	products   map[string]*models.Product
	comments   map[string]*models.Comment
	bookmarks  map[string][]string
	order      map[string]record

	calls []string
	echo  *echo.Echo
}

func New(secret string) *Server {
	s := &Server{
		secret:     []byte(secret),
		cost:       bcrypt.DefaultCost,
		users:      map[string]*user{},
		categories: map[string]*models.Category{},
		products:   map[string]*models.Product{},
		comments:   map[string]*models.Comment{},
		bookmarks:  map[string][]string{},
		order:      map[string]record{},
	}
	s.echo = s.routes()
	return s
}

// NewForTest uses the cheapest bcrypt cost so tests stay fast.
func NewForTest(secret string) *Server {
	s := New(secret)
	s.cost = bcrypt.MinCost
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Calls lists every request received as "METHOD /path".
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallsMatching counts requests whose "METHOD /path" starts with prefix.
func (s *Server) CallsMatching(prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record)

	e.POST("/auth/login", s.login)
	e.POST("/auth/signup", s.signup)

	auth := s.validateToken

	e.GET("/users/:id", s.getUser, auth)
	e.PUT("/users/:id", s.updateUser, auth)
	e.PUT("/users/:id/change-password", s.changePassword, auth)

	e.GET("/products", s.listProducts)
	e.GET("/products/:id", s.getProduct)
	e.POST("/products", s.createProduct, auth, requireAdmin)
	e.PUT("/products/:id", s.updateProduct, auth, requireAdmin)
	e.DELETE("/products/:id", s.deleteProduct, auth, requireAdmin)

	e.GET("/categories", s.listCategories)
	e.GET("/categories/:id", s.getCategory)
	e.POST("/categories", s.createCategory, auth, requireAdmin)
	e.PUT("/categories/:id", s.updateCategory, auth, requireAdmin)
	e.DELETE("/categories/:id", s.deleteCategory, auth, requireAdmin)

	e.GET("/bookmarks", s.listBookmarks, auth)
	e.POST("/bookmarks", s.addBookmark, auth)
	e.DELETE("/bookmarks/:id", s.removeBookmark, auth)

	e.GET("/comments/product/:id", s.listComments)
	e.POST("/comments", s.addComment, auth)
	e.PUT("/comments/:id", s.editComment, auth)
	e.DELETE("/comments/:id", s.deleteComment, auth)

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
		_ = c.JSON(code, models.ErrorBody{Error: msg})
	}
	return e
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.calls = append(s.calls, c.Request().Method+" "+c.Request().URL.Path)
		s.mu.Unlock()
		return next(c)
	}
}

// newID must be called with s.mu held.
func (s *Server) newID() string {
	id := uuid.NewString()
	s.seq++
	s.order[id] = record{seq: s.seq}
	return id
}

// sortByCreation must be called with s.mu held.
func (s *Server) sortByCreation(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return s.order[ids[i]].seq < s.order[ids[j]].seq })
}

func fail(code int, msg string) error {
	return echo.NewHTTPError(code, msg)
}
