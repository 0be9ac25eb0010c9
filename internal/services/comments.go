package services

import (
	"context"
	"net/http"

	"storefront/internal/models"
)

func (s *ServiceClient) ListComments(ctx context.Context, productID string) ([]models.Comment, error) {
	var list []models.Comment
	err := s.do(ctx, call{
		resource: "comments", op: "list",
		method: http.MethodGet, path: "/comments/product/" + pathID(productID),
		out: &list,
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Comment{}
	}
	return list, nil
}

func (s *ServiceClient) AddComment(ctx context.Context, token string, in models.CommentInput) (*models.Comment, error) {
	var c models.Comment
	err := s.do(ctx, call{
		resource: "comments", op: "add",
		method: http.MethodPost, path: "/comments",
		token: token, body: in, out: &c,
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ServiceClient) EditComment(ctx context.Context, token, commentID, text string) (*models.Comment, error) {
	var c models.Comment
	err := s.do(ctx, call{
		resource: "comments", op: "edit",
		method: http.MethodPut, path: "/comments/" + pathID(commentID),
		token: token, body: models.CommentUpdate{Comment: text}, out: &c,
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ServiceClient) DeleteComment(ctx context.Context, token, commentID string) error {
	return s.do(ctx, call{
		resource: "comments", op: "delete",
		method: http.MethodDelete, path: "/comments/" + pathID(commentID),
		token: token,
	})
}
