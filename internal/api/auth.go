package api

import (
	"context"
	"fmt"
	"net/http"

	"procure-desk/internal/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token and installs the
// resulting session on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*session.Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("failed to login: username and password are required")
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	sess, err := session.FromToken(resp.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	c.sess = sess
	return sess, nil
}
