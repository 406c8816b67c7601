package appointment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthrecords/healthrecords/internal/domain/identity"
	"github.com/healthrecords/healthrecords/internal/platform/session"
	"github.com/healthrecords/healthrecords/internal/platform/store"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

// deleteConfirmWindow is how long a first delete click stays armed.
const deleteConfirmWindow = 3 * time.Second

// CanModerate reports whether the approve/reject controls apply: the caller
// must be a doctor or admin and the appointment must still be pending. Both
// inputs are normalized enums, so the checks are strict equality.
func CanModerate(role identity.Role, status Status) bool {
	if role != identity.RoleDoctor && role != identity.RoleAdmin {
		return false
	}
	return status == StatusPending
}

// Service drives the appointment lifecycle view: role-dispatched loading,
// create/edit with payload assembly, approve/reject/delete flows, and the
// store the view reads from.
type Service struct {
	client  *Client
	session *session.Session
	appts   *store.Slice[Appointment]
	log     zerolog.Logger

	mu         sync.Mutex
	armedID    int64
	armedUntil time.Time
	now        func() time.Time
}

func NewService(client *Client, sess *session.Session, log zerolog.Logger) *Service {
	return &Service{
		client:  client,
		session: sess,
		appts:   store.NewSlice[Appointment](),
		log:     log,
		now:     time.Now,
	}
}

// Store exposes the slice for views.
func (s *Service) Store() *store.Slice[Appointment] { return s.appts }

func (s *Service) role() identity.Role {
	ident, ok := s.session.User()
	if !ok {
		return identity.RoleUnknown
	}
	return identity.ParseRole(ident.Role)
}

// Load fetches the appointment set for the current role: admins get the
// global list, doctors and patients their upcoming appointments. A response
// that lost the race to a newer fetch is discarded.
func (s *Service) Load(ctx context.Context) error {
	seq := s.appts.Begin()

	var (
		appts []Appointment
		err   error
	)
	if s.role() == identity.RoleAdmin {
		appts, err = s.client.List(ctx)
	} else {
		appts, err = s.client.MyUpcoming(ctx)
	}
	if err != nil {
		s.appts.Fail(seq, err.Error())
		return err
	}
	if !s.appts.ApplyList(seq, appts) {
		s.log.Debug().Msg("stale appointment fetch discarded")
	}
	return nil
}

// LoadByDateRange fetches the calendar view window into the store.
func (s *Service) LoadByDateRange(ctx context.Context, start, end string) error {
	if start == "" || end == "" {
		return fmt.Errorf("start and end are required")
	}
	seq := s.appts.Begin()
	appts, err := s.client.ByDateRange(ctx, start, end)
	if err != nil {
		s.appts.Fail(seq, err.Error())
		return err
	}
	s.appts.ApplyList(seq, appts)
	return nil
}

// Get fetches one appointment and records it as the current item.
func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	appt, err := s.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.appts.SetCurrent(*appt)
	return appt, nil
}

// CreateInput is what the form collects before payload assembly.
type CreateInput struct {
	Title               string
	Description         string
	AppointmentDateTime time.Time
	DoctorID            int64
	PatientID           int64
	IsVideoConsultation bool
	MeetingLink         string
	Notes               string
}

// buildRequest assembles the submission payload. For patient callers the
// patient id always resolves to the session identity; other roles must pick
// one explicitly.
func (s *Service) buildRequest(in CreateInput) (CreateRequest, error) {
	if in.Title == "" {
		return CreateRequest{}, fmt.Errorf("title is required")
	}
	if in.AppointmentDateTime.IsZero() {
		return CreateRequest{}, fmt.Errorf("appointment date and time are required")
	}
	if in.AppointmentDateTime.Before(s.now()) {
		return CreateRequest{}, fmt.Errorf("appointment date must be in the future")
	}
	if in.DoctorID == 0 {
		return CreateRequest{}, fmt.Errorf("doctor is required")
	}

	patientID := in.PatientID
	if s.role() == identity.RolePatient {
		ident, ok := s.session.User()
		if !ok {
			return CreateRequest{}, fmt.Errorf("no authenticated user")
		}
		patientID = ident.ID
	} else if patientID == 0 {
		return CreateRequest{}, fmt.Errorf("patient is required")
	}

	return CreateRequest{
		Title:               in.Title,
		Description:         in.Description,
		AppointmentDateTime: wire.NewDateTime(in.AppointmentDateTime),
		DoctorID:            in.DoctorID,
		PatientID:           patientID,
		IsVideoConsultation: in.IsVideoConsultation,
		MeetingLink:         in.MeetingLink,
		Notes:               in.Notes,
	}, nil
}

// Create submits a new appointment and appends the server's response to the
// store.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	req, err := s.buildRequest(in)
	if err != nil {
		return nil, err
	}
	appt, err := s.client.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.appts.Append(*appt)
	return appt, nil
}

// CreateOpen submits through the unauthenticated open endpoint. The patient
// id must be supplied since there is no session to resolve it from.
func (s *Service) CreateOpen(ctx context.Context, in CreateInput) (*Appointment, error) {
	if in.PatientID == 0 {
		return nil, fmt.Errorf("patient is required")
	}
	req, err := s.buildRequest(in)
	if err != nil {
		return nil, err
	}
	appt, err := s.client.CreateOpen(ctx, req)
	if err != nil {
		return nil, err
	}
	s.appts.Append(*appt)
	return appt, nil
}

// Update edits an existing appointment and patches it into the store.
func (s *Service) Update(ctx context.Context, id int64, in CreateInput) (*Appointment, error) {
	req, err := s.buildRequest(in)
	if err != nil {
		return nil, err
	}
	appt, err := s.client.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.appts.Patch(func(a Appointment) bool { return a.ID == id }, *appt)
	return appt, nil
}

// Approve confirms a pending appointment, patches the result into the
// store, and refreshes the list. The client does not re-validate the
// transition; the backend is authoritative and its rejection is surfaced.
func (s *Service) Approve(ctx context.Context, id int64) (*Appointment, error) {
	appt, err := s.client.Confirm(ctx, id)
	if err != nil {
		return nil, err
	}
	s.appts.Patch(func(a Appointment) bool { return a.ID == id }, *appt)
	if err := s.Load(ctx); err != nil {
		s.log.Warn().Err(err).Msg("refresh after approve failed")
	}
	return appt, nil
}

// Reject cancels a pending appointment. The reason is required before the
// call goes out; the dialog carries the target id unchanged.
func (s *Service) Reject(ctx context.Context, id int64, reason string) (*Appointment, error) {
	if reason == "" {
		return nil, fmt.Errorf("a reason is required to reject an appointment")
	}
	appt, err := s.client.Reject(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	s.appts.Patch(func(a Appointment) bool { return a.ID == id }, *appt)
	if err := s.Load(ctx); err != nil {
		s.log.Warn().Err(err).Msg("refresh after reject failed")
	}
	return appt, nil
}

// Delete implements the two-click confirmation: the first call arms a
// 3-second window for the row and reports deleted=false; a second call on
// the same row inside the window executes. A call after the window, or on a
// different row, re-arms instead of deleting.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	armed := s.armedID == id && s.now().Before(s.armedUntil)
	if !armed {
		s.armedID = id
		s.armedUntil = s.now().Add(deleteConfirmWindow)
		s.mu.Unlock()
		return false, nil
	}
	s.armedID = 0
	s.mu.Unlock()

	if err := s.client.Delete(ctx, id); err != nil {
		return false, err
	}
	s.appts.Remove(func(a Appointment) bool { return a.ID == id })
	if err := s.Load(ctx); err != nil {
		s.log.Warn().Err(err).Msg("refresh after delete failed")
	}
	return true, nil
}

// DeleteArmed reports whether the row currently has an armed confirmation.
func (s *Service) DeleteArmed(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armedID == id && s.now().Before(s.armedUntil)
}

// ResolveDoctor and ResolvePatient lazily resolve actor references through
// the users endpoint.
func (s *Service) ResolveDoctor(ctx context.Context, appt *Appointment, users *identity.UsersClient) (identity.User, error) {
	return appt.Doctor.Resolve(ctx, users.Get)
}

func (s *Service) ResolvePatient(ctx context.Context, appt *Appointment, users *identity.UsersClient) (identity.User, error) {
	return appt.Patient.Resolve(ctx, users.Get)
}
