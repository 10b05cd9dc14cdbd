package downstream

import (
	"context"
	"errors"
	"net/http"
)

var ErrEmptyToken = errors.New("empty_token")

// AuthClient exchanges credentials for a token at /auth/login.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (a *AuthClient) Login(ctx context.Context, username, password string) (string, error) {
	var out loginResponse
	if err := a.c.send(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Username: username, Password: password}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", ErrEmptyToken
	}
	return out.Token, nil
}
