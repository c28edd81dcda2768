package venmo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ericfisherdev/govenmo/internal/domain/model"
)

const (
	searchDefaultLimit       = 50
	searchMaxLimit           = 50
	searchMaxOffset          = 9900
	friendsDefaultLimit      = 3337
	friendsMaxLimit          = 3337
	transactionsDefaultLimit = 50
	transactionsMaxLimit     = 50
)

// SearchUsers searches users by name, username, phone or email.
func (c *Client) SearchUsers(ctx context.Context, query string, opts ListOptions) (*Page[model.User], error) {
	return c.searchUsers(ctx, query, false, opts)
}

// GetUserByUsername returns the user whose username is exactly username, or
// nil when the search has no exact match.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, &ArgumentMissingError{Arguments: []string{"username"}}
	}

	page, err := c.searchUsers(ctx, username, true, ListOptions{})
	if err != nil {
		return nil, err
	}
	for i := range page.Items {
		if page.Items[i].Username == username {
			return &page.Items[i], nil
		}
	}
	return nil, nil
}

func (c *Client) searchUsers(ctx context.Context, query string, byUsername bool, opts ListOptions) (*Page[model.User], error) {
	opts, err := normalizeOffsetOptions(opts, searchDefaultLimit, searchMaxLimit, searchMaxOffset)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"query":  {query},
		"offset": {strconv.Itoa(opts.Offset)},
		"limit":  {strconv.Itoa(opts.Limit)},
	}
	if byUsername {
		params.Set("type", "username")
	}

	env, err := c.transport.Call(ctx, Request{Path: "/users", Method: http.MethodGet, Query: params})
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	users, err := deserializeList(env, decodePeerUser)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	return newOffsetPage(users, opts, searchMaxOffset, func(ctx context.Context, next ListOptions) (*Page[model.User], error) {
		return c.searchUsers(ctx, query, byUsername, next)
	}), nil
}

// GetUser returns the user with userID.
func (c *Client) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, &ArgumentMissingError{Arguments: []string{"user_id"}}
	}

	env, err := c.transport.Call(ctx, Request{Path: "/users/" + url.PathEscape(userID), Method: http.MethodGet})
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", userID, err)
	}
	user, err := deserializeOne(env, decodePeerUser)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", userID, err)
	}
	return user, nil
}

// FriendsList returns the friends of userID.
func (c *Client) FriendsList(ctx context.Context, userID string, opts ListOptions) (*Page[model.User], error) {
	if userID == "" {
		return nil, &ArgumentMissingError{Arguments: []string{"user_id"}}
	}
	opts, err := normalizeOffsetOptions(opts, friendsDefaultLimit, friendsMaxLimit, unboundedOffset)
	if err != nil {
		return nil, err
	}

	env, err := c.transport.Call(ctx, Request{
		Path:   "/users/" + url.PathEscape(userID) + "/friends",
		Method: http.MethodGet,
		Query: url.Values{
			"offset": {strconv.Itoa(opts.Offset)},
			"limit":  {strconv.Itoa(opts.Limit)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("listing friends of %s: %w", userID, err)
	}
	friends, err := deserializeList(env, decodePeerUser)
	if err != nil {
		return nil, fmt.Errorf("listing friends of %s: %w", userID, err)
	}

	return newOffsetPage(friends, opts, unboundedOffset, func(ctx context.Context, next ListOptions) (*Page[model.User], error) {
		return c.FriendsList(ctx, userID, next)
	}), nil
}

// UserTransactions returns the payment stories userID took part in, newest
// first.
func (c *Client) UserTransactions(ctx context.Context, userID string, opts ListOptions) (*Page[model.Transaction], error) {
	if userID == "" {
		return nil, &ArgumentMissingError{Arguments: []string{"user_id"}}
	}

	p := "/stories/target-or-actor/" + url.PathEscape(userID)
	return c.transactions(ctx, p, opts, func(ctx context.Context, next ListOptions) (*Page[model.Transaction], error) {
		return c.UserTransactions(ctx, userID, next)
	})
}

// TransactionsBetween returns the payment stories between two users, newest
// first.
func (c *Client) TransactionsBetween(ctx context.Context, userID, otherUserID string, opts ListOptions) (*Page[model.Transaction], error) {
	var missing []string
	if userID == "" {
		missing = append(missing, "user_id")
	}
	if otherUserID == "" {
		missing = append(missing, "other_user_id")
	}
	if len(missing) > 0 {
		return nil, &ArgumentMissingError{Arguments: missing, Reason: "both users are required"}
	}

	p := "/stories/target-or-actor/" + url.PathEscape(userID) + "/target-or-actor/" + url.PathEscape(otherUserID)
	return c.transactions(ctx, p, opts, func(ctx context.Context, next ListOptions) (*Page[model.Transaction], error) {
		return c.TransactionsBetween(ctx, userID, otherUserID, next)
	})
}

func (c *Client) transactions(
	ctx context.Context,
	resourcePath string,
	opts ListOptions,
	fetch pageFetcher[model.Transaction],
) (*Page[model.Transaction], error) {
	opts, err := normalizeLimit(opts, transactionsDefaultLimit, transactionsMaxLimit)
	if err != nil {
		return nil, err
	}

	params := url.Values{"limit": {strconv.Itoa(opts.Limit)}}
	if opts.BeforeID != "" {
		params.Set("before_id", opts.BeforeID)
	}

	env, err := c.transport.Call(ctx, Request{Path: resourcePath, Method: http.MethodGet, Query: params})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	txs, err := deserializeList(env, DecodeTransaction)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return newCursorPage(txs, opts, fetch, func(t model.Transaction) string { return t.ID }), nil
}

// normalizeOffsetOptions validates opts for an offset-paged endpoint. A
// maxOffset of unboundedOffset disables the upper bound.
func normalizeOffsetOptions(opts ListOptions, defaultLimit, maxLimit, maxOffset int) (ListOptions, error) {
	switch {
	case opts.Offset < 0:
		return opts, &InvalidArgumentError{Argument: "offset", Reason: "must not be negative"}
	case maxOffset != unboundedOffset && opts.Offset > maxOffset:
		return opts, &InvalidArgumentError{Argument: "offset", Reason: fmt.Sprintf("must be at most %d", maxOffset)}
	}
	return normalizeLimit(opts, defaultLimit, maxLimit)
}

func normalizeLimit(opts ListOptions, defaultLimit, maxLimit int) (ListOptions, error) {
	switch {
	case opts.Limit < 0:
		return opts, &InvalidArgumentError{Argument: "limit", Reason: "must not be negative"}
	case opts.Limit > maxLimit:
		return opts, &InvalidArgumentError{Argument: "limit", Reason: fmt.Sprintf("must be at most %d", maxLimit)}
	case opts.Limit == 0:
		opts.Limit = defaultLimit
	}
	return opts, nil
}
