package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mymoneyhq/moneyctl/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *model.Profile `json:"user"`
	Token string         `json:"token"`
}

type registerRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// Login exchanges credentials for a bearer token and the user's profile.
// The caller owns persisting the token into the credential store.
func (c *Client) Login(ctx context.Context, email, password string) (string, *model.Profile, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", nil, err
	}
	if resp.Token == "" {
		return "", nil, fmt.Errorf("login response carried no token")
	}
	return resp.Token, resp.User, nil
}

// Register creates an account, optionally attaching an already-uploaded
// profile image URL.
func (c *Client) Register(ctx context.Context, fullName, email, password, profileImageURL string) (*model.Profile, error) {
	req := registerRequest{
		FullName:        fullName,
		Email:           email,
		Password:        password,
		ProfileImageURL: profileImageURL,
	}
	var profile model.Profile
	if err := c.do(ctx, http.MethodPost, "/register", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Profile fetches the current user's profile. Requires a token.
func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
