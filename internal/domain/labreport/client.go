package labreport

import (
	"context"
	"fmt"

	"github.com/healthrecords/healthrecords/internal/platform/api"
	"github.com/healthrecords/healthrecords/internal/platform/upload"
)

// Client is the call group for the /lab-reports endpoints. Create and
// update always go out as multipart form data: a JSON "labReport" part plus
// the optional file part.
type Client struct {
	api *api.Client
}

func NewClient(client *api.Client) *Client {
	return &Client{api: client}
}

func (c *Client) List(ctx context.Context) ([]LabReport, error) {
	var reports []LabReport
	if err := c.api.Get(ctx, "/lab-reports", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) ByPatient(ctx context.Context, patientID int64) ([]LabReport, error) {
	var reports []LabReport
	if err := c.api.Get(ctx, fmt.Sprintf("/lab-reports/patient/%d", patientID), &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) ByDoctor(ctx context.Context, doctorID int64) ([]LabReport, error) {
	var reports []LabReport
	if err := c.api.Get(ctx, fmt.Sprintf("/lab-reports/doctor/%d", doctorID), &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*LabReport, error) {
	var report LabReport
	if err := c.api.Get(ctx, fmt.Sprintf("/lab-reports/%d", id), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Create(ctx context.Context, req CreateRequest, file *upload.File) (*LabReport, error) {
	var report LabReport
	if err := c.api.PostMultipart(ctx, "/lab-reports", "labReport", req, file, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Update(ctx context.Context, id int64, req CreateRequest, file *upload.File) (*LabReport, error) {
	var report LabReport
	if err := c.api.PutMultipart(ctx, fmt.Sprintf("/lab-reports/%d", id), "labReport", req, file, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/lab-reports/%d", id))
}

// Download fetches the attached file as a blob.
func (c *Client) Download(ctx context.Context, id int64) ([]byte, string, string, error) {
	return c.api.Download(ctx, fmt.Sprintf("/lab-reports/%d/download", id))
}
