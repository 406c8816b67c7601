package prescription

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/healthrecords/healthrecords/internal/platform/store"
)

// Service is the store-backed prescriptions view model.
type Service struct {
	client        *Client
	prescriptions *store.Slice[Prescription]
	log           zerolog.Logger
}

func NewService(client *Client, log zerolog.Logger) *Service {
	return &Service{client: client, prescriptions: store.NewSlice[Prescription](), log: log}
}

func (s *Service) Store() *store.Slice[Prescription] { return s.prescriptions }

func (s *Service) Load(ctx context.Context) error {
	seq := s.prescriptions.Begin()
	prescriptions, err := s.client.List(ctx)
	if err != nil {
		s.prescriptions.Fail(seq, err.Error())
		return err
	}
	s.prescriptions.ApplyList(seq, prescriptions)
	return nil
}

func (s *Service) LoadByPatient(ctx context.Context, patientID int64) error {
	seq := s.prescriptions.Begin()
	prescriptions, err := s.client.ByPatient(ctx, patientID)
	if err != nil {
		s.prescriptions.Fail(seq, err.Error())
		return err
	}
	s.prescriptions.ApplyList(seq, prescriptions)
	return nil
}

func (s *Service) LoadByDoctor(ctx context.Context, doctorID int64) error {
	seq := s.prescriptions.Begin()
	prescriptions, err := s.client.ByDoctor(ctx, doctorID)
	if err != nil {
		s.prescriptions.Fail(seq, err.Error())
		return err
	}
	s.prescriptions.ApplyList(seq, prescriptions)
	return nil
}

func (s *Service) LoadByMedicalRecord(ctx context.Context, medicalRecordID int64) error {
	seq := s.prescriptions.Begin()
	prescriptions, err := s.client.ByMedicalRecord(ctx, medicalRecordID)
	if err != nil {
		s.prescriptions.Fail(seq, err.Error())
		return err
	}
	s.prescriptions.ApplyList(seq, prescriptions)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Prescription, error) {
	prescription, err := s.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.prescriptions.SetCurrent(*prescription)
	return prescription, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Prescription, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	prescription, err := s.client.Create(ctx, in.request(), in.File)
	if err != nil {
		return nil, err
	}
	s.prescriptions.Append(*prescription)
	return prescription, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Prescription, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	prescription, err := s.client.Update(ctx, id, in.request(), in.File)
	if err != nil {
		return nil, err
	}
	s.prescriptions.Patch(func(p Prescription) bool { return p.ID == id }, *prescription)
	return prescription, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, id); err != nil {
		return err
	}
	s.prescriptions.Remove(func(p Prescription) bool { return p.ID == id })
	return nil
}

// Download fetches the attachment blob for saving locally.
func (s *Service) Download(ctx context.Context, id int64) ([]byte, string, string, error) {
	return s.client.Download(ctx, id)
}
