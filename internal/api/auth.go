package api

import (
	"context"
	"net/http"
)

// Signup registers a new account: POST /auth/signup -> 201 AuthResponse.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/signup", req, &out); err != nil {
		return AuthResponse{}, err
	}
	c.SetToken(out.AccessToken)
	return out, nil
}

// Login: POST /auth/login -> 200 AuthResponse.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return AuthResponse{}, err
	}
	c.SetToken(out.AccessToken)
	return out, nil
}

// Logout: POST /auth/logout -> 204. The bearer token is dropped here on
// success; after a failure the caller decides.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.ClearToken()
	return nil
}

// Me: GET /auth/me -> User.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	if err := c.getJSON(ctx, "/auth/me", &out); err != nil {
		return User{}, err
	}
	return out, nil
}
