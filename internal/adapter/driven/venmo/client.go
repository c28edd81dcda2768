package venmo

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/ericfisherdev/govenmo/internal/domain/model"
)

// Client exposes the user and payment operations of the API.
type Client struct {
	transport *Transport

	mu sync.Mutex
	me *model.User
}

// NewClient creates a Client issuing its calls through transport.
func NewClient(transport *Transport) *Client {
	return &Client{transport: transport}
}

// Transport returns the Transport the client issues its calls through.
func (c *Client) Transport() *Transport {
	return c.transport
}

// MyProfile returns the logged-in user. The result is kept in memory and
// fetched again only when forceUpdate is set.
func (c *Client) MyProfile(ctx context.Context, forceUpdate bool) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.me != nil && !forceUpdate {
		return c.me, nil
	}

	env, err := c.transport.Call(ctx, Request{Path: "/account", Method: http.MethodGet})
	if err != nil {
		return nil, fmt.Errorf("fetching my profile: %w", err)
	}

	me, err := deserializeOne(env, decodePeerUser, "user")
	if err != nil {
		return nil, fmt.Errorf("fetching my profile: %w", err)
	}
	c.me = me
	return me, nil
}
