package prescription

import (
	"context"
	"fmt"

	"github.com/healthrecords/healthrecords/internal/platform/api"
	"github.com/healthrecords/healthrecords/internal/platform/upload"
)

// Client is the call group for the /prescriptions endpoints. Submissions go
// out as plain JSON unless a file is attached, in which case the body is
// multipart with a JSON "prescription" part.
type Client struct {
	api *api.Client
}

func NewClient(client *api.Client) *Client {
	return &Client{api: client}
}

func (c *Client) List(ctx context.Context) ([]Prescription, error) {
	var prescriptions []Prescription
	if err := c.api.Get(ctx, "/prescriptions", &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (c *Client) ByPatient(ctx context.Context, patientID int64) ([]Prescription, error) {
	var prescriptions []Prescription
	if err := c.api.Get(ctx, fmt.Sprintf("/prescriptions/patient/%d", patientID), &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (c *Client) ByDoctor(ctx context.Context, doctorID int64) ([]Prescription, error) {
	var prescriptions []Prescription
	if err := c.api.Get(ctx, fmt.Sprintf("/prescriptions/doctor/%d", doctorID), &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (c *Client) ByMedicalRecord(ctx context.Context, medicalRecordID int64) ([]Prescription, error) {
	var prescriptions []Prescription
	if err := c.api.Get(ctx, fmt.Sprintf("/prescriptions/medical-record/%d", medicalRecordID), &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*Prescription, error) {
	var prescription Prescription
	if err := c.api.Get(ctx, fmt.Sprintf("/prescriptions/%d", id), &prescription); err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (c *Client) Create(ctx context.Context, req CreateRequest, file *upload.File) (*Prescription, error) {
	var prescription Prescription
	if file != nil {
		if err := c.api.PostMultipart(ctx, "/prescriptions", "prescription", req, file, &prescription); err != nil {
			return nil, err
		}
		return &prescription, nil
	}
	if err := c.api.Post(ctx, "/prescriptions", req, &prescription); err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (c *Client) Update(ctx context.Context, id int64, req CreateRequest, file *upload.File) (*Prescription, error) {
	var prescription Prescription
	path := fmt.Sprintf("/prescriptions/%d", id)
	if file != nil {
		if err := c.api.PutMultipart(ctx, path, "prescription", req, file, &prescription); err != nil {
			return nil, err
		}
		return &prescription, nil
	}
	if err := c.api.Put(ctx, path, req, &prescription); err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.api.Delete(ctx, fmt.Sprintf("/prescriptions/%d", id))
}

// Download fetches the attached file as a blob.
func (c *Client) Download(ctx context.Context, id int64) ([]byte, string, string, error) {
	return c.api.Download(ctx, fmt.Sprintf("/prescriptions/%d/download", id))
}
