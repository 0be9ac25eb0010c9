package services

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/models"
)

// ListBookmarks returns the products userID has bookmarked.
func (s *ServiceClient) ListBookmarks(ctx context.Context, token, userID string) ([]models.Product, error) {
	var list []models.Product
	err := s.do(ctx, call{
		resource: "bookmarks", op: "list",
		method: http.MethodGet, path: "/bookmarks",
		query: url.Values{"user": {userID}},
		token: token, out: &list,
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Product{}
	}
	return list, nil
}

// AddBookmark returns the bookmarked product.
func (s *ServiceClient) AddBookmark(ctx context.Context, token, userID, productID string) (*models.Product, error) {
	var p models.Product
	err := s.do(ctx, call{
		resource: "bookmarks", op: "add",
		method: http.MethodPost, path: "/bookmarks",
		token: token,
		body:  models.BookmarkInput{User: userID, Product: productID},
		out:   &p,
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ServiceClient) RemoveBookmark(ctx context.Context, token, userID, productID string) error {
	return s.do(ctx, call{
		resource: "bookmarks", op: "remove",
		method: http.MethodDelete, path: "/bookmarks/" + pathID(productID),
		query: url.Values{"user": {userID}},
		token: token,
	})
}
