package pages

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"storefront/internal/auth"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/session"
)

type productCard struct {
	models.Product
	Level        StockLevel
	ImageURL     string
	CategoryName string
	Bookmarked   bool
}

type productsPage struct {
	Category   string
	Search     string
	Page       int
	PrevPage   int
	NextPage   int
	Return     string
	Categories []models.Category
	Cards      []productCard
}

func (productsPage) title() string { return "Products" }

func (h *Handler) listProducts(c echo.Context) error {
	ctx := c.Request().Context()
	sess := session.From(c)

	category := c.QueryParam("category")
	if category == "" {
		category = services.AllCategories
	}
	page := pageNumber(c.QueryParam("page"))
	search := c.QueryParam("search")

	var (
		products   []models.Product
		categories []models.Category
		bookmarked = map[string]bool{}
	)

	var g errgroup.Group
	g.Go(func() error {
		list, err := h.svc.ListProducts(ctx, services.ProductQuery{Category: category, Page: page, Limit: h.pageSize})
		if err != nil {
			return err
		}
		products = list
		return nil
	})
	g.Go(func() error {
		categories = h.categoriesOrEmpty(ctx)
		return nil
	})
	if auth.IsLoggedIn(sess) {
		g.Go(func() error {
			list, err := h.svc.ListBookmarks(ctx, auth.Token(sess), sess.ID)
			if err != nil {
				logging.FromContext(ctx).Warn("bookmarks unavailable, rendering without them", "error", err)
				return nil
			}
			for _, p := range list {
				bookmarked[p.ID] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.fail(c, err, "Failed to load products.")
		products = nil
	}

	data := productsPage{
		Category:   category,
		Search:     search,
		Page:       page,
		Return:     c.Request().URL.RequestURI(),
		Categories: categories,
	}
	if page > 1 {
		data.PrevPage = page - 1
	}
	if len(products) == h.pageSize {
		data.NextPage = page + 1
	}
	for _, p := range FilterProducts(products, search) {
		data.Cards = append(data.Cards, productCard{
			Product:      p,
			Level:        StockLevelFor(p.Stock),
			ImageURL:     h.svc.ImageURL(p.Image),
			CategoryName: CategoryName(categories, p.Category),
			Bookmarked:   bookmarked[p.ID],
		})
	}
	return c.Render(http.StatusOK, "products", data)
}

// toggleBookmark applies an explicit add or remove, so a repeated submit
// leaves the same state.
func (h *Handler) toggleBookmark(c echo.Context) error {
	sess := session.From(c)
	id := c.Param("id")
	back := safeRedirect(c.FormValue("next"), "/")

	var err error
	switch c.FormValue("action") {
	case "add":
		_, err = h.svc.AddBookmark(c.Request().Context(), auth.Token(sess), sess.ID, id)
	case "remove":
		err = h.svc.RemoveBookmark(c.Request().Context(), auth.Token(sess), sess.ID, id)
	default:
		h.notes.Error(c, "Failed to update bookmark.")
		return h.redirect(c, back)
	}
	if err != nil {
		h.fail(c, err, "Failed to update bookmark.")
	}
	return h.redirect(c, back)
}

func (h *Handler) deleteProduct(c echo.Context) error {
	sess := session.From(c)
	if err := h.svc.DeleteProduct(c.Request().Context(), auth.Token(sess), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete product")
		return h.redirect(c, "/")
	}
	h.notes.Success(c, "Product deleted successfully")
	return h.redirect(c, safeRedirect(c.FormValue("next"), "/"))
}

type productFormPage struct {
	Heading    string
	Action     string
	Form       ProductForm
	Categories []models.Category
}

func (p productFormPage) title() string { return p.Heading }

func productFormFrom(c echo.Context) ProductForm {
	return ProductForm{
		Name:        c.FormValue("name"),
		Price:       c.FormValue("price"),
		Stock:       c.FormValue("stock"),
		Description: c.FormValue("description"),
		Image:       c.FormValue("image"),
		Category:    c.FormValue("category"),
	}
}

func (h *Handler) newProductForm(c echo.Context) error {
	return c.Render(http.StatusOK, "product_form", productFormPage{
		Heading:    "Add New Product",
		Action:     "/products/new",
		Categories: h.categoriesOrEmpty(c.Request().Context()),
	})
}

func (h *Handler) createProduct(c echo.Context) error {
	ctx := c.Request().Context()
	form := productFormFrom(c)
	in, err := ValidateProduct(form)
	if err == nil {
		_, err = h.svc.CreateProduct(ctx, auth.Token(session.From(c)), in)
	}
	if err != nil {
		h.fail(c, err, "Failed to add product.")
		return c.Render(http.StatusUnprocessableEntity, "product_form", productFormPage{
			Heading:    "Add New Product",
			Action:     "/products/new",
			Form:       form,
			Categories: h.categoriesOrEmpty(ctx),
		})
	}
	h.notes.Success(c, "Product added successfully")
	return h.redirect(c, "/")
}

func (h *Handler) editProductForm(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var (
		product    *models.Product
		categories []models.Category
	)
	var g errgroup.Group
	g.Go(func() error {
		p, err := h.svc.GetProduct(ctx, id)
		product = p
		return err
	})
	g.Go(func() error {
		categories = h.categoriesOrEmpty(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err, "Product not found.")
		return h.redirect(c, "/")
	}

	return c.Render(http.StatusOK, "product_form", productFormPage{
		Heading: "Edit Product",
		Action:  "/products/" + id + "/edit",
		Form: ProductForm{
			Name:        product.Name,
			Price:       product.Price.StringFixed(2),
			Stock:       itoa(product.Stock),
			Description: product.Description,
			Image:       product.Image,
			Category:    product.Category.ID,
		},
		Categories: categories,
	})
}

func (h *Handler) updateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	form := productFormFrom(c)
	in, err := ValidateProduct(form)
	if err == nil {
		_, err = h.svc.UpdateProduct(ctx, auth.Token(session.From(c)), id, in)
	}
	if err != nil {
		h.fail(c, err, "Failed to update product.")
		return c.Render(http.StatusUnprocessableEntity, "product_form", productFormPage{
			Heading:    "Edit Product",
			Action:     "/products/" + id + "/edit",
			Form:       form,
			Categories: h.categoriesOrEmpty(ctx),
		})
	}
	h.notes.Success(c, "Product updated successfully")
	return h.redirect(c, "/")
}
