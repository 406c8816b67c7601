package notification

import (
	"context"
	"fmt"

	"github.com/healthrecords/healthrecords/internal/platform/api"
)

// Client is the call group for the /notifications endpoints.
type Client struct {
	api *api.Client
}

func NewClient(client *api.Client) *Client {
	return &Client{api: client}
}

func (c *Client) List(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	if err := c.api.Get(ctx, "/notifications", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) Unread(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	if err := c.api.Get(ctx, "/notifications/unread", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	if err := c.api.Get(ctx, "/notifications/count-unread", &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*Notification, error) {
	var notification Notification
	if err := c.api.Get(ctx, fmt.Sprintf("/notifications/%d", id), &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (c *Client) MarkRead(ctx context.Context, id int64) (*Notification, error) {
	var notification Notification
	if err := c.api.Put(ctx, fmt.Sprintf("/notifications/%d/mark-read", id), struct{}{}, &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.api.Put(ctx, "/notifications/mark-all-read", struct{}{}, nil)
}
