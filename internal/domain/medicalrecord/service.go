package medicalrecord

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/healthrecords/healthrecords/internal/platform/store"
)

// Service is the store-backed medical records view model.
type Service struct {
	client  *Client
	records *store.Slice[MedicalRecord]
	log     zerolog.Logger
}

func NewService(client *Client, log zerolog.Logger) *Service {
	return &Service{client: client, records: store.NewSlice[MedicalRecord](), log: log}
}

func (s *Service) Store() *store.Slice[MedicalRecord] { return s.records }

func (s *Service) Load(ctx context.Context) error {
	seq := s.records.Begin()
	records, err := s.client.List(ctx)
	if err != nil {
		s.records.Fail(seq, err.Error())
		return err
	}
	s.records.ApplyList(seq, records)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*MedicalRecord, error) {
	record, err := s.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.records.SetCurrent(*record)
	return record, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*MedicalRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	record, err := s.client.Create(ctx, in.request())
	if err != nil {
		return nil, err
	}
	s.records.Append(*record)
	return record, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*MedicalRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	record, err := s.client.Update(ctx, id, in.request())
	if err != nil {
		return nil, err
	}
	s.records.Patch(func(r MedicalRecord) bool { return r.ID == id }, *record)
	return record, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, id); err != nil {
		return err
	}
	s.records.Remove(func(r MedicalRecord) bool { return r.ID == id })
	return nil
}
