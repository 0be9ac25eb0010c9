// Package session keeps the signed-in user in a browser cookie.
//
// The cookie value is an HS256 JWT whose claims carry the session fields, so
// the storefront stays stateless: any instance can decode any request. The
// token's exp claim and the cookie expiry are the same instant.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"storefront/internal/models"
)

const (
	CookieName = "currentUser"
	DefaultTTL = 30 * 24 * time.Hour

	contextKey = "session"
)

type claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
	jwt.RegisteredClaims
}

type Store struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewStore(secret string, ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Get returns the session carried by r. A missing, tampered or expired
// cookie all read as absent.
func (s *Store) Get(r *http.Request) (*models.Session, bool) {
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return nil, false
	}
	sess, err := s.decode(ck.Value)
	if err != nil {
		return nil, false
	}
	return sess, true
}

// Set writes sess to the response. A zero ExpiresAt starts a fresh TTL;
// otherwise the existing expiry is kept, so rewriting the session after a
// profile change does not extend it.
func (s *Store) Set(w http.ResponseWriter, sess *models.Session) error {
	if sess == nil || sess.ID == "" {
		return errors.New("session: refusing to store an empty session")
	}
	exp := sess.ExpiresAt
	if exp.IsZero() {
		exp = s.now().Add(s.ttl)
	}

	c := claims{
		Name:  sess.Name,
		Email: sess.Email,
		Role:  sess.Role,
		Token: sess.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.ID,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	sess.ExpiresAt = exp
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(exp.Sub(s.now()).Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Store) decode(raw string) (*models.Session, error) {
	var c claims
	tkn, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || c.Subject == "" {
		return nil, errors.New("session: invalid token")
	}
	return &models.Session{
		ID:        c.Subject,
		Name:      c.Name,
		Email:     c.Email,
		Role:      c.Role,
		Token:     c.Token,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// Load decodes the session once per request and hands it to handlers
// through the echo context; see From.
func (s *Store) Load(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if sess, ok := s.Get(c.Request()); ok {
			c.Set(contextKey, sess)
		}
		return next(c)
	}
}

// From returns the session loaded for this request, or nil.
func From(c echo.Context) *models.Session {
	sess, _ := c.Get(contextKey).(*models.Session)
	return sess
}

// Put replaces the session seen by the rest of this request.
func Put(c echo.Context, sess *models.Session) {
	c.Set(contextKey, sess)
}
