package services

import (
	"context"
	"net/http"

	"storefront/internal/models"
)

func (s *ServiceClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var sess models.Session
	err := s.do(ctx, call{
		resource: "auth", op: "login",
		method: http.MethodPost, path: "/auth/login",
		body: models.Credentials{Email: email, Password: password},
		out:  &sess,
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *ServiceClient) Signup(ctx context.Context, name, email, password string) (*models.Session, error) {
	var sess models.Session
	err := s.do(ctx, call{
		resource: "auth", op: "signup",
		method: http.MethodPost, path: "/auth/signup",
		body: models.Credentials{Name: name, Email: email, Password: password},
		out:  &sess,
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}
