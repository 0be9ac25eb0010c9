package mockapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/models"
)

// AddCategory seeds a category.
func (s *Server) AddCategory(name string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := &models.Category{ID: s.newID(), Name: name}
	s.categories[cat.ID] = cat
	return *cat
}

// AddProduct seeds a product.
func (s *Server) AddProduct(in models.ProductInput) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &models.Product{ID: s.newID()}
	s.applyProduct(p, in)
	s.products[p.ID] = p
	return *p
}

// applyProduct must be called with s.mu held.
func (s *Server) applyProduct(p *models.Product, in models.ProductInput) {
	p.Name = in.Name
	p.Price = in.Price
	p.Stock = in.Stock
	p.Description = in.Description
	p.Image = in.Image
	p.Category = models.Ref{ID: in.Category}
	if cat, ok := s.categories[in.Category]; ok {
		p.Category.Name = cat.Name
	}
}

// product returns a copy with the category populated; must be called with
// s.mu held.
func (s *Server) product(id string) (models.Product, bool) {
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, false
	}
	out := *p
	if cat, ok := s.categories[p.Category.ID]; ok {
		out.Category.Name = cat.Name
	}
	return out, true
}

func (s *Server) listProducts(c echo.Context) error {
	category := c.QueryParam("category")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.products))
	for id, p := range s.products {
		if category == "" || p.Category.ID == category {
			ids = append(ids, id)
		}
	}
	s.sortByCreation(ids)

	if limit > 0 {
		start := (page - 1) * limit
		if start > len(ids) {
			start = len(ids)
		}
		end := start + limit
		if end > len(ids) {
			end = len(ids)
		}
		ids = ids[start:end]
	}

	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, _ := s.product(id)
		out = append(out, p)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getProduct(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.product(c.Param("id"))
	if !ok {
		return fail(http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, p)
}

func bindProduct(c echo.Context) (models.ProductInput, error) {
	var in models.ProductInput
	if err := c.Bind(&in); err != nil {
		return in, fail(http.StatusBadRequest, "Invalid request body")
	}
	if in.Name == "" || in.Category == "" {
		return in, fail(http.StatusBadRequest, "Name and category are required")
	}
	if in.Price.IsNegative() || in.Stock < 0 {
		return in, fail(http.StatusBadRequest, "Price and stock cannot be negative")
	}
	return in, nil
}

func (s *Server) createProduct(c echo.Context) error {
	in, err := bindProduct(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[in.Category]; !ok {
		return fail(http.StatusBadRequest, "Category not found")
	}
	p := &models.Product{ID: s.newID()}
	s.applyProduct(p, in)
	s.products[p.ID] = p
	return c.JSON(http.StatusOK, *p)
}

func (s *Server) updateProduct(c echo.Context) error {
	in, err := bindProduct(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[c.Param("id")]
	if !ok {
		return fail(http.StatusNotFound, "Product not found")
	}
	if _, ok := s.categories[in.Category]; !ok {
		return fail(http.StatusBadRequest, "Category not found")
	}
	s.applyProduct(p, in)
	return c.JSON(http.StatusOK, *p)
}

func (s *Server) deleteProduct(c echo.Context) error {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return fail(http.StatusNotFound, "Product not found")
	}
	delete(s.products, id)
	for uid, ids := range s.bookmarks {
		s.bookmarks[uid] = without(ids, id)
	}
	for cid, cm := range s.comments {
		if cm.Product == id {
			delete(s.comments, cid)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product has been deleted"})
}

func (s *Server) listCategories(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.categories))
	for id := range s.categories {
		ids = append(ids, id)
	}
	s.sortByCreation(ids)
	out := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.categories[id])
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getCategory(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, ok := s.categories[c.Param("id")]
	if !ok {
		return fail(http.StatusNotFound, "Category not found")
	}
	return c.JSON(http.StatusOK, *cat)
}

func (s *Server) createCategory(c echo.Context) error {
	var in models.CategoryInput
	if err := c.Bind(&in); err != nil || in.Name == "" {
		return fail(http.StatusBadRequest, "Category name is required")
	}
	return c.JSON(http.StatusOK, s.AddCategory(in.Name))
}

func (s *Server) updateCategory(c echo.Context) error {
	var in models.CategoryInput
	if err := c.Bind(&in); err != nil || in.Name == "" {
		return fail(http.StatusBadRequest, "Category name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, ok := s.categories[c.Param("id")]
	if !ok {
		return fail(http.StatusNotFound, "Category not found")
	}
	cat.Name = in.Name
	return c.JSON(http.StatusOK, *cat)
}

func (s *Server) deleteCategory(c echo.Context) error {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return fail(http.StatusNotFound, "Category not found")
	}
	for _, p := range s.products {
		if p.Category.ID == id {
			return fail(http.StatusBadRequest, "Category is still used by products")
		}
	}
	delete(s.categories, id)
	return c.JSON(http.StatusOK, map[string]string{"message": "Category has been deleted"})
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
