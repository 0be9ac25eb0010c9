package services

import (
	"context"
	"net/http"

	"storefront/internal/models"
)

func (s *ServiceClient) GetProfile(ctx context.Context, token, userID string) (*models.User, error) {
	var u models.User
	err := s.do(ctx, call{
		resource: "profile", op: "get",
		method: http.MethodGet, path: "/users/" + pathID(userID),
		token: token, out: &u,
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *ServiceClient) UpdateProfile(ctx context.Context, token, userID string, in models.ProfileUpdate) (*models.User, error) {
	var u models.User
	err := s.do(ctx, call{
		resource: "profile", op: "update",
		method: http.MethodPut, path: "/users/" + pathID(userID),
		token: token, body: in, out: &u,
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *ServiceClient) ChangePassword(ctx context.Context, token, userID string, in models.PasswordChange) error {
	return s.do(ctx, call{
		resource: "profile", op: "change_password",
		method: http.MethodPut, path: "/users/" + pathID(userID) + "/change-password",
		token: token, body: in,
	})
}
