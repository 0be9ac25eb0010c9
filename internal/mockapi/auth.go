package mockapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

func (s *Server) issueToken(u *user) (string, error) {
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"exp":  time.Now().Add(30 * 24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// validateToken accepts "Authorization: Bearer <jwt>" signed with the
// server secret and exposes the subject and role to handlers.
func (s *Server) validateToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return fail(http.StatusUnauthorized, "Missing Authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return fail(http.StatusUnauthorized, "Invalid Authorization header format")
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			return fail(http.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fail(http.StatusUnauthorized, "Invalid or expired token")
		}
		userID, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		if userID == "" {
			return fail(http.StatusUnauthorized, "Invalid or expired token")
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)
		return next(c)
	}
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get(ctxRole).(string); role != models.RoleAdmin {
			return fail(http.StatusForbidden, "Admin access required")
		}
		return next(c)
	}
}

func caller(c echo.Context) (id string, admin bool) {
	id, _ = c.Get(ctxUserID).(string)
	role, _ := c.Get(ctxRole).(string)
	return id, role == models.RoleAdmin
}

// AddUser seeds a user and returns it.
func (s *Server) AddUser(name, email, password, role string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userByEmail(email) != nil {
		return models.User{}, fmt.Errorf("email %s already registered", email)
	}
	u := &user{User: models.User{ID: s.newID(), Name: name, Email: email, Role: role}, hash: hash}
	s.users[u.ID] = u
	return u.User, nil
}

// Token issues a bearer token for an existing user.
func (s *Server) Token(userID string) (string, error) {
	s.mu.Lock()
	u, ok := s.users[userID]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("unknown user %s", userID)
	}
	return s.issueToken(u)
}

// userByEmail must be called with s.mu held.
func (s *Server) userByEmail(email string) *user {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (s *Server) sessionFor(u *user) (models.Session, error) {
	token, err := s.issueToken(u)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Token: token}, nil
}

func (s *Server) login(c echo.Context) error {
	var in models.Credentials
	if err := c.Bind(&in); err != nil {
		return fail(http.StatusBadRequest, "Invalid request body")
	}
	if in.Email == "" || in.Password == "" {
		return fail(http.StatusBadRequest, "Email and password are required")
	}

	s.mu.Lock()
	u := s.userByEmail(in.Email)
	s.mu.Unlock()
	if u == nil || bcrypt.CompareHashAndPassword(u.hash, []byte(in.Password)) != nil {
		return fail(http.StatusBadRequest, "Invalid email or password")
	}

	sess, err := s.sessionFor(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) signup(c echo.Context) error {
	var in models.Credentials
	if err := c.Bind(&in); err != nil {
		return fail(http.StatusBadRequest, "Invalid request body")
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return fail(http.StatusBadRequest, "All fields are required")
	}

	created, err := s.AddUser(in.Name, in.Email, in.Password, "user")
	if err != nil {
		return fail(http.StatusBadRequest, "Email already exists")
	}

	s.mu.Lock()
	u := s.users[created.ID]
	s.mu.Unlock()
	sess, err := s.sessionFor(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) getUser(c echo.Context) error {
	id := c.Param("id")
	if uid, admin := caller(c); uid != id && !admin {
		return fail(http.StatusForbidden, "You can only view your own profile")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return fail(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, u.User)
}

func (s *Server) updateUser(c echo.Context) error {
	id := c.Param("id")
	if uid, admin := caller(c); uid != id && !admin {
		return fail(http.StatusForbidden, "You can only update your own profile")
	}
	var in models.ProfileUpdate
	if err := c.Bind(&in); err != nil || in.Name == "" || in.Email == "" {
		return fail(http.StatusBadRequest, "Name and email are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return fail(http.StatusNotFound, "User not found")
	}
	if other := s.userByEmail(in.Email); other != nil && other.ID != id {
		return fail(http.StatusBadRequest, "Email already exists")
	}
	u.Name, u.Email = in.Name, in.Email
	return c.JSON(http.StatusOK, u.User)
}

func (s *Server) changePassword(c echo.Context) error {
	id := c.Param("id")
	if uid, _ := caller(c); uid != id {
		return fail(http.StatusForbidden, "You can only change your own password")
	}
	var in models.PasswordChange
	if err := c.Bind(&in); err != nil || in.OldPassword == "" || in.NewPassword == "" {
		return fail(http.StatusBadRequest, "Old and new password are required")
	}

	s.mu.Lock()
	u, ok := s.users[id]
	s.mu.Unlock()
	if !ok {
		return fail(http.StatusNotFound, "User not found")
	}
	if bcrypt.CompareHashAndPassword(u.hash, []byte(in.OldPassword)) != nil {
		return fail(http.StatusBadRequest, "Incorrect old password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.cost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	u.hash = hash
	s.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
