package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/models"
)

// AllCategories selects every category in ProductQuery.
const AllCategories = "all"

type ProductQuery struct {
	Category string
	Page     int
	Limit    int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" && q.Category != AllCategories {
		v.Set("category", q.Category)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func (s *ServiceClient) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	var list []models.Product
	err := s.do(ctx, call{
		resource: "products", op: "list",
		method: http.MethodGet, path: "/products", query: q.values(),
		out: &list,
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Product{}
	}
	return list, nil
}

func (s *ServiceClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.do(ctx, call{
		resource: "products", op: "get",
		method: http.MethodGet, path: "/products/" + pathID(id),
		out: &p,
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ServiceClient) CreateProduct(ctx context.Context, token string, in models.ProductInput) (*models.Product, error) {
	var p models.Product
	err := s.do(ctx, call{
		resource: "products", op: "create",
		method: http.MethodPost, path: "/products",
		token: token, body: in, out: &p,
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ServiceClient) UpdateProduct(ctx context.Context, token, id string, in models.ProductInput) (*models.Product, error) {
	var p models.Product
	err := s.do(ctx, call{
		resource: "products", op: "update",
		method: http.MethodPut, path: "/products/" + pathID(id),
		token: token, body: in, out: &p,
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ServiceClient) DeleteProduct(ctx context.Context, token, id string) error {
	return s.do(ctx, call{
		resource: "products", op: "delete",
		method: http.MethodDelete, path: "/products/" + pathID(id),
		token: token,
	})
}

// ImageURL is where the backend serves a product image stored at path.
func (s *ServiceClient) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}
