package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const RoleAdmin = "admin"

// Session is the authenticated identity returned by /auth/login and
// /auth/signup and kept in the session cookie.
type Session struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"-"`
}

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Ref points at another document. The backend sends either the bare id or
// the populated document, so both forms decode into a Ref.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

func (r Ref) IsZero() bool {
	return r.ID == ""
}

type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	Category    Ref             `json:"category"`
}

// ProductInput is the body of product create and update calls.
type ProductInput struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category"`
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type CategoryInput struct {
	Name string `json:"name"`
}

type BookmarkInput struct {
	User    string `json:"user"`
	Product string `json:"product"`
}

type Comment struct {
	ID      string `json:"_id"`
	Product string `json:"product"`
	User    Ref    `json:"user"`
	Comment string `json:"comment"`
}

type CommentInput struct {
	Product string `json:"product"`
	User    string `json:"user"`
	Comment string `json:"comment"`
}

type CommentUpdate struct {
	Comment string `json:"comment"`
}

type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PasswordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ErrorBody is the error envelope the backend uses for non-2xx responses.
type ErrorBody struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
