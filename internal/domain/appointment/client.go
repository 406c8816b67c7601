package appointment

import (
	"context"
	"fmt"
	"net/url"

	"github.com/healthrecords/healthrecords/internal/platform/api"
)

// Client is the call group for the /appointments endpoints.
type Client struct {
	api *api.Client
}

func NewClient(client *api.Client) *Client {
	return &Client{api: client}
}

// List fetches the global appointment list (admin only on the backend).
func (c *Client) List(ctx context.Context) ([]Appointment, error) {
	var appts []Appointment
	if err := c.api.Get(ctx, "/appointments", &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// Mine fetches the caller's appointments.
func (c *Client) Mine(ctx context.Context) ([]Appointment, error) {
	var appts []Appointment
	if err := c.api.Get(ctx, "/appointments/my-appointments", &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// MyUpcoming fetches the caller's upcoming appointments.
func (c *Client) MyUpcoming(ctx context.Context) ([]Appointment, error) {
	var appts []Appointment
	if err := c.api.Get(ctx, "/appointments/my-upcoming-appointments", &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// ByDateRange fetches appointments between two instants (calendar view).
func (c *Client) ByDateRange(ctx context.Context, start, end string) ([]Appointment, error) {
	var appts []Appointment
	path := fmt.Sprintf("/appointments/date-range?start=%s&end=%s",
		url.QueryEscape(start), url.QueryEscape(end))
	if err := c.api.Get(ctx, path, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*Appointment, error) {
	var appt Appointment
	if err := c.api.Get(ctx, fmt.Sprintf("/appointments/%d", id), &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	var appt Appointment
	if err := c.api.Post(ctx, "/appointments", req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// CreateOpen submits a patient-initiated appointment through the
// unauthenticated open endpoint.
func (c *Client) CreateOpen(ctx context.Context, req CreateRequest) (*Appointment, error) {
	var appt Appointment
	if err := c.api.PostOpen(ctx, "/open/appointments", req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) Update(ctx context.Context, id int64, req CreateRequest) (*Appointment, error) {
	var appt Appointment
	if err := c.api.Put(ctx, fmt.Sprintf("/appointments/%d", id), req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/appointments/%d", id))
}

// Confirm approves a pending appointment through the dedicated endpoint.
func (c *Client) Confirm(ctx context.Context, id int64) (*Appointment, error) {
	var appt Appointment
	if err := c.api.Put(ctx, fmt.Sprintf("/appointments/%d/confirm", id), struct{}{}, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// Reject cancels a pending appointment with a reason.
func (c *Client) Reject(ctx context.Context, id int64, reason string) (*Appointment, error) {
	var appt Appointment
	if err := c.api.Put(ctx, fmt.Sprintf("/appointments/%d/reject", id), RejectRequest{Reason: reason}, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}
