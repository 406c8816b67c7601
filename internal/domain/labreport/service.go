package labreport

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/healthrecords/healthrecords/internal/platform/store"
)

// Service is the store-backed lab reports view model.
type Service struct {
	client  *Client
	reports *store.Slice[LabReport]
	log     zerolog.Logger
}

func NewService(client *Client, log zerolog.Logger) *Service {
	return &Service{client: client, reports: store.NewSlice[LabReport](), log: log}
}

func (s *Service) Store() *store.Slice[LabReport] { return s.reports }

func (s *Service) Load(ctx context.Context) error {
	seq := s.reports.Begin()
	reports, err := s.client.List(ctx)
	if err != nil {
		s.reports.Fail(seq, err.Error())
		return err
	}
	s.reports.ApplyList(seq, reports)
	return nil
}

// LoadByPatient narrows the list to one patient's reports.
func (s *Service) LoadByPatient(ctx context.Context, patientID int64) error {
	seq := s.reports.Begin()
	reports, err := s.client.ByPatient(ctx, patientID)
	if err != nil {
		s.reports.Fail(seq, err.Error())
		return err
	}
	s.reports.ApplyList(seq, reports)
	return nil
}

// LoadByDoctor narrows the list to one doctor's reports.
func (s *Service) LoadByDoctor(ctx context.Context, doctorID int64) error {
	seq := s.reports.Begin()
	reports, err := s.client.ByDoctor(ctx, doctorID)
	if err != nil {
		s.reports.Fail(seq, err.Error())
		return err
	}
	s.reports.ApplyList(seq, reports)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*LabReport, error) {
	report, err := s.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.reports.SetCurrent(*report)
	return report, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*LabReport, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	report, err := s.client.Create(ctx, in.request(), in.File)
	if err != nil {
		return nil, err
	}
	s.reports.Append(*report)
	return report, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*LabReport, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	report, err := s.client.Update(ctx, id, in.request(), in.File)
	if err != nil {
		return nil, err
	}
	s.reports.Patch(func(r LabReport) bool { return r.ID == id }, *report)
	return report, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, id); err != nil {
		return err
	}
	s.reports.Remove(func(r LabReport) bool { return r.ID == id })
	return nil
}

// Download fetches the attachment blob for saving locally.
func (s *Service) Download(ctx context.Context, id int64) ([]byte, string, string, error) {
	return s.client.Download(ctx, id)
}
