package pages

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/session"
)

type categoriesPage struct {
	Categories []models.Category
	Name       string
}

func (categoriesPage) title() string { return "Categories" }

type categoryFormPage struct {
	Category models.Category
}

func (categoryFormPage) title() string { return "Edit Category" }

func (h *Handler) listCategories(c echo.Context) error {
	cats, err := h.svc.ListCategories(c.Request().Context())
	if err != nil {
		h.fail(c, err, "Failed to load categories.")
		cats = []models.Category{}
	}
	return c.Render(http.StatusOK, "categories", categoriesPage{Categories: cats})
}

func (h *Handler) createCategory(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if err := ValidateCategory(name); err != nil {
		h.fail(c, err, "")
		return h.redirect(c, "/categories")
	}
	_, err := h.svc.CreateCategory(c.Request().Context(), auth.Token(session.From(c)), models.CategoryInput{Name: name})
	if err != nil {
		h.fail(c, err, "Failed to add category.")
		return h.redirect(c, "/categories")
	}
	h.notes.Success(c, "Category added.")
	return h.redirect(c, "/categories")
}

func (h *Handler) editCategoryForm(c echo.Context) error {
	cat, err := h.svc.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Category not found.")
		return h.redirect(c, "/categories")
	}
	return c.Render(http.StatusOK, "category_form", categoryFormPage{Category: *cat})
}

func (h *Handler) updateCategory(c echo.Context) error {
	id := c.Param("id")
	name := strings.TrimSpace(c.FormValue("name"))
	if err := ValidateCategory(name); err != nil {
		h.fail(c, err, "")
		return c.Render(http.StatusUnprocessableEntity, "category_form", categoryFormPage{Category: models.Category{ID: id, Name: name}})
	}
	_, err := h.svc.UpdateCategory(c.Request().Context(), auth.Token(session.From(c)), id, models.CategoryInput{Name: name})
	if err != nil {
		h.fail(c, err, "Failed to update category.")
		return c.Render(http.StatusUnprocessableEntity, "category_form", categoryFormPage{Category: models.Category{ID: id, Name: name}})
	}
	h.notes.Success(c, "Category updated.")
	return h.redirect(c, "/categories")
}

func (h *Handler) deleteCategory(c echo.Context) error {
	err := h.svc.DeleteCategory(c.Request().Context(), auth.Token(session.From(c)), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to delete category.")
		return h.redirect(c, "/categories")
	}
	h.notes.Success(c, "Category deleted.")
	return h.redirect(c, "/categories")
}
