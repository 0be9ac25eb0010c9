package pages

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/session"
)

const loginWindow = time.Minute

type loginPage struct {
	Email string
}

func (loginPage) title() string { return "Login" }

type signupPage struct {
	Name  string
	Email string
}

func (signupPage) title() string { return "Sign Up" }

func (h *Handler) loginForm(c echo.Context) error {
	if auth.IsLoggedIn(session.From(c)) {
		return h.redirect(c, "/")
	}
	return c.Render(http.StatusOK, "login", loginPage{})
}

func (h *Handler) login(c echo.Context) error {
	ctx := c.Request().Context()
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	if h.limiter != nil && h.loginLimit > 0 &&
		h.limiter.IsRateLimited(ctx, "login:"+c.RealIP(), h.loginLimit, loginWindow) {
		logging.FromContext(ctx).Warn("login rate limit exceeded")
		h.notes.Error(c, "Too many login attempts. Please try again later.")
		return c.Render(http.StatusTooManyRequests, "login", loginPage{Email: email})
	}

	if err := ValidateLogin(email, password); err != nil {
		h.fail(c, err, "")
		return c.Render(http.StatusUnprocessableEntity, "login", loginPage{Email: email})
	}

	sess, err := h.gw.Login(ctx, c.Response(), email, password)
	if err != nil {
		h.fail(c, err, "Login failed. Please try again.")
		return c.Render(http.StatusUnauthorized, "login", loginPage{Email: email})
	}
	session.Put(c, sess)
	h.notes.Success(c, "Welcome back! You have successfully logged in.")
	return h.redirect(c, "/")
}

func (h *Handler) signupForm(c echo.Context) error {
	if auth.IsLoggedIn(session.From(c)) {
		return h.redirect(c, "/")
	}
	return c.Render(http.StatusOK, "signup", signupPage{})
}

func (h *Handler) signup(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")

	if err := ValidateSignup(name, email, password, confirm); err != nil {
		h.fail(c, err, "")
		return c.Render(http.StatusUnprocessableEntity, "signup", signupPage{Name: name, Email: email})
	}
	sess, err := h.gw.Signup(c.Request().Context(), c.Response(), name, email, password)
	if err != nil {
		h.fail(c, err, "Signup failed. Please try again.")
		return c.Render(http.StatusUnprocessableEntity, "signup", signupPage{Name: name, Email: email})
	}
	session.Put(c, sess)
	h.notes.Success(c, "Welcome! Your account has been created.")
	return h.redirect(c, "/")
}

func (h *Handler) logout(c echo.Context) error {
	h.gw.Logout(c.Response())
	session.Put(c, nil)
	h.notes.Info(c, "You have been logged out.")
	return h.redirect(c, "/login")
}

type profilePage struct {
	User models.User
}

func (profilePage) title() string { return "User Profile" }

func (h *Handler) profile(c echo.Context) error {
	sess := session.From(c)
	u, err := h.svc.GetProfile(c.Request().Context(), auth.Token(sess), sess.ID)
	if err != nil {
		h.fail(c, err, "Failed to load profile.")
		u = &models.User{ID: sess.ID, Name: sess.Name, Email: sess.Email, Role: sess.Role}
	}
	return c.Render(http.StatusOK, "profile", profilePage{User: *u})
}

func (h *Handler) updateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	sess := session.From(c)
	in := models.ProfileUpdate{
		Name:  strings.TrimSpace(c.FormValue("name")),
		Email: strings.TrimSpace(c.FormValue("email")),
	}

	if err := ValidateProfile(in.Name, in.Email); err != nil {
		h.fail(c, err, "")
		return h.redirect(c, "/profile")
	}
	u, err := h.svc.UpdateProfile(ctx, auth.Token(sess), sess.ID, in)
	if err != nil {
		h.fail(c, err, "Profile update failed.")
		return h.redirect(c, "/profile")
	}
	if err := h.gw.Refresh(c.Response(), sess, u); err != nil {
		logging.FromContext(ctx).Error("session refresh failed", "error", err)
	}
	h.notes.Success(c, "Profile updated!")
	return h.redirect(c, "/profile")
}

func (h *Handler) changePassword(c echo.Context) error {
	sess := session.From(c)
	in := models.PasswordChange{
		OldPassword: c.FormValue("old_password"),
		NewPassword: c.FormValue("new_password"),
	}

	if err := ValidatePasswordChange(in.OldPassword, in.NewPassword, c.FormValue("confirm_password")); err != nil {
		h.fail(c, err, "")
		return h.redirect(c, "/profile")
	}
	if err := h.svc.ChangePassword(c.Request().Context(), auth.Token(sess), sess.ID, in); err != nil {
		h.fail(c, err, "Failed to change password.")
		return h.redirect(c, "/profile")
	}
	h.notes.Success(c, "Password changed successfully.")
	return h.redirect(c, "/profile")
}
