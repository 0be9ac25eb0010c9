package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/cache"
	"storefront/internal/logging"
	"storefront/internal/models"
)

const categoriesCacheKey = "categories:all"

// ListCategories reads through the cache when one is configured. Cache
// trouble is logged and the backend is asked directly.
func (s *ServiceClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	l := logging.FromContext(ctx)
	if s.cache != nil {
		data, err := s.cache.Get(ctx, categoriesCacheKey)
		switch {
		case err == nil:
			var cached []models.Category
			if jerr := json.Unmarshal(data, &cached); jerr == nil {
				return cached, nil
			}
			l.Warn("dropping undecodable category cache entry")
		case !errors.Is(err, cache.ErrMiss):
			l.Warn("category cache read failed", "error", err)
		}
	}

	var list []models.Category
	err := s.do(ctx, call{
		resource: "categories", op: "list",
		method: http.MethodGet, path: "/categories",
		out: &list,
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Category{}
	}

	if s.cache != nil {
		if data, err := json.Marshal(list); err == nil {
			if err := s.cache.Set(ctx, categoriesCacheKey, data, s.categoryTTL); err != nil {
				l.Warn("category cache write failed", "error", err)
			}
		}
	}
	return list, nil
}

func (s *ServiceClient) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var cat models.Category
	err := s.do(ctx, call{
		resource: "categories", op: "get",
		method: http.MethodGet, path: "/categories/" + pathID(id),
		out: &cat,
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *ServiceClient) CreateCategory(ctx context.Context, token string, in models.CategoryInput) (*models.Category, error) {
	var cat models.Category
	err := s.do(ctx, call{
		resource: "categories", op: "create",
		method: http.MethodPost, path: "/categories",
		token: token, body: in, out: &cat,
	})
	s.invalidateCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *ServiceClient) UpdateCategory(ctx context.Context, token, id string, in models.CategoryInput) (*models.Category, error) {
	var cat models.Category
	err := s.do(ctx, call{
		resource: "categories", op: "update",
		method: http.MethodPut, path: "/categories/" + pathID(id),
		token: token, body: in, out: &cat,
	})
	s.invalidateCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *ServiceClient) DeleteCategory(ctx context.Context, token, id string) error {
	err := s.do(ctx, call{
		resource: "categories", op: "delete",
		method: http.MethodDelete, path: "/categories/" + pathID(id),
		token: token,
	})
	s.invalidateCategories(ctx)
	return err
}

func (s *ServiceClient) invalidateCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, categoriesCacheKey); err != nil {
		logging.FromContext(ctx).Warn("category cache invalidation failed", "error", err)
	}
}
