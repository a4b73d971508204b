package api

import (
	"context"
	"net/http"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse carries the access token to persist plus the profile of
// the signed-in user.
type SignInResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*SignInResponse, error) {
	var out SignInResponse
	err := c.do(ctx, http.MethodPost, "/auth/signin", signInRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) SignUp(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", signUpRequest{Name: name, Email: email, Password: password}, nil)
}
