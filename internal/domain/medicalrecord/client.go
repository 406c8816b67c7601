package medicalrecord

import (
	"context"
	"fmt"

	"github.com/healthrecords/healthrecords/internal/platform/api"
)

// Client is the call group for the /medical-records endpoints.
type Client struct {
	api *api.Client
}

func NewClient(client *api.Client) *Client {
	return &Client{api: client}
}

func (c *Client) List(ctx context.Context) ([]MedicalRecord, error) {
	var records []MedicalRecord
	if err := c.api.Get(ctx, "/medical-records", &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*MedicalRecord, error) {
	var record MedicalRecord
	if err := c.api.Get(ctx, fmt.Sprintf("/medical-records/%d", id), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (*MedicalRecord, error) {
	var record MedicalRecord
	if err := c.api.Post(ctx, "/medical-records", req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) Update(ctx context.Context, id int64, req CreateRequest) (*MedicalRecord, error) {
	var record MedicalRecord
	if err := c.api.Put(ctx, fmt.Sprintf("/medical-records/%d", id), req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/medical-records/%d", id))
}
