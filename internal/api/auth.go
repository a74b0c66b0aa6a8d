package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ezbooks/ezb/internal/model"
)

// userPayload is the wire shape of the /auth/me response.
type userPayload struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Tier    string `json:"tier"`
	Usage   int    `json:"usage"`
	Limit   *int   `json:"limit"`
	Created int64  `json:"created"`
}

// CurrentUser fetches the authenticated user's profile, including
// monthly usage against the tier limit.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}

	body, contentType, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !isJSON(contentType) {
		return nil, fmt.Errorf("unexpected profile response type %q", contentType)
	}

	var payload userPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	return &model.User{
		ID:      payload.UserID,
		Email:   payload.Email,
		Tier:    payload.Tier,
		Usage:   payload.Usage,
		Limit:   payload.Limit,
		Created: payload.Created,
	}, nil
}
