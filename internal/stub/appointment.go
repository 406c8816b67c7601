package stub

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthrecords/healthrecords/internal/domain/appointment"
	"github.com/healthrecords/healthrecords/internal/domain/identity"
	"github.com/healthrecords/healthrecords/internal/domain/notification"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

// sweepCompleted marks approved appointments whose time has passed as
// completed. Runs under s.mu on every appointment read.
func (s *Server) sweepCompleted() {
	now := s.now()
	for _, appt := range s.appointments {
		if appt.Status == appointment.StatusApproved && appt.AppointmentDateTime.Before(now) {
			appt.Status = appointment.StatusCompleted
			appt.UpdatedAt = wire.NewDateTime(now)
		}
	}
}

func (s *Server) notify(userID int64, typ notification.Type, title, message string, appointmentID int64) {
	n := &notification.Notification{
		ID:                   s.newID(),
		UserID:               userID,
		Title:                title,
		Message:              message,
		Type:                 typ,
		RelatedAppointmentID: appointmentID,
		CreatedAt:            wire.NewDateTime(s.now()),
	}
	s.notifications[n.ID] = n
}

func (s *Server) listAppointments(c echo.Context) error {
	if currentUser(c).Role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepCompleted()
	appts := []*appointment.Appointment{}
	for _, a := range s.appointments {
		appts = append(appts, a)
	}
	return c.JSON(http.StatusOK, appts)
}

func (s *Server) mine(userID int64) []*appointment.Appointment {
	appts := []*appointment.Appointment{}
	for _, a := range s.appointments {
		if a.Patient.ID() == userID || a.Doctor.ID() == userID {
			appts = append(appts, a)
		}
	}
	return appts
}

func (s *Server) myAppointments(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepCompleted()
	return c.JSON(http.StatusOK, s.mine(currentUser(c).ID))
}

func (s *Server) myUpcomingAppointments(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepCompleted()
	now := s.now()
	upcoming := []*appointment.Appointment{}
	for _, a := range s.mine(currentUser(c).ID) {
		if a.AppointmentDateTime.After(now) && a.Status != appointment.StatusCancelled {
			upcoming = append(upcoming, a)
		}
	}
	return c.JSON(http.StatusOK, upcoming)
}

func (s *Server) appointmentsByDateRange(c echo.Context) error {
	start, err := parseRangeBound(c.QueryParam("start"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start date")
	}
	end, err := parseRangeBound(c.QueryParam("end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end date")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepCompleted()
	appts := []*appointment.Appointment{}
	for _, a := range s.appointments {
		t := a.AppointmentDateTime.Time
		if !t.Before(start) && !t.After(end) {
			appts = append(appts, a)
		}
	}
	return c.JSON(http.StatusOK, appts)
}

func parseRangeBound(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, echo.ErrBadRequest
}

func (s *Server) getAppointment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepCompleted()
	appt, ok := s.appointments[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.JSON(http.StatusOK, appt)
}

func (s *Server) createAppointment(c echo.Context) error {
	var req appointment.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	appt, err := s.buildAppointment(c, req)
	if err != nil {
		return err
	}
	s.appointments[appt.ID] = appt
	s.notify(appt.Doctor.ID(), notification.TypeAppointmentRequested,
		"New Appointment Request",
		"A new appointment has been requested: "+appt.Title, appt.ID)
	return c.JSON(http.StatusCreated, appt)
}

// createAppointmentOpen accepts unauthenticated requests; the patient id
// must be carried in the payload.
func (s *Server) createAppointmentOpen(c echo.Context) error {
	var req appointment.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "patientId is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	appt, err := s.buildAppointment(c, req)
	if err != nil {
		return err
	}
	s.appointments[appt.ID] = appt
	return c.JSON(http.StatusCreated, appt)
}

// buildAppointment validates refs and assembles a pending appointment.
// Caller holds s.mu. The "ERROR: " title envelope matches the shape the
// real backend emits for unknown actors.
func (s *Server) buildAppointment(c echo.Context, req appointment.CreateRequest) (*appointment.Appointment, error) {
	doctor, ok := s.users[req.DoctorID]
	if !ok || doctor.Role != identity.RoleDoctor {
		return nil, echo.NewHTTPError(http.StatusBadRequest, echo.Map{"title": "ERROR: Doctor not found"})
	}
	patientID := req.PatientID
	if patientID == 0 {
		if u := currentUser(c); u != nil {
			patientID = u.ID
		}
	}
	patient, ok := s.users[patientID]
	if !ok {
		return nil, echo.NewHTTPError(http.StatusBadRequest, echo.Map{"title": "ERROR: Patient not found"})
	}
	if req.Title == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	now := s.now()
	return &appointment.Appointment{
		ID:                  s.newID(),
		Patient:             appointment.RefOf(*patient),
		Doctor:              appointment.RefOf(*doctor),
		AppointmentDateTime: req.AppointmentDateTime,
		Title:               req.Title,
		Description:         req.Description,
		Status:              appointment.StatusPending,
		Notes:               req.Notes,
		IsVideoConsultation: req.IsVideoConsultation,
		MeetingLink:         req.MeetingLink,
		CreatedAt:           wire.NewDateTime(now),
		UpdatedAt:           wire.NewDateTime(now),
	}, nil
}

func (s *Server) updateAppointment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req appointment.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	if req.Title != "" {
		appt.Title = req.Title
	}
	if req.Description != "" {
		appt.Description = req.Description
	}
	if !req.AppointmentDateTime.IsZero() {
		appt.AppointmentDateTime = req.AppointmentDateTime
	}
	if req.Notes != "" {
		appt.Notes = req.Notes
	}
	appt.IsVideoConsultation = req.IsVideoConsultation
	if req.MeetingLink != "" {
		appt.MeetingLink = req.MeetingLink
	}
	appt.UpdatedAt = wire.NewDateTime(s.now())
	return c.JSON(http.StatusOK, appt)
}

func (s *Server) deleteAppointment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	participant := appt.Patient.ID() == user.ID || appt.Doctor.ID() == user.ID
	if user.Role != identity.RoleAdmin && !participant {
		return echo.NewHTTPError(http.StatusForbidden, "not your appointment")
	}
	delete(s.appointments, id)
	delete(s.rejectReasons, id)
	if user.ID != appt.Patient.ID() {
		s.notify(appt.Patient.ID(), notification.TypeAppointmentCancelled,
			"Appointment Cancelled",
			"Your appointment has been cancelled: "+appt.Title, id)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) confirmAppointment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	role := currentUser(c).Role
	if role != identity.RoleDoctor && role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "doctor or admin access required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	if appt.Status != appointment.StatusPending {
		return echo.NewHTTPError(http.StatusBadRequest, "only pending appointments can be confirmed")
	}
	appt.Status = appointment.StatusApproved
	appt.UpdatedAt = wire.NewDateTime(s.now())
	s.notify(appt.Patient.ID(), notification.TypeAppointmentConfirmed,
		"Appointment Confirmed",
		"Your appointment has been confirmed: "+appt.Title, id)
	return c.JSON(http.StatusOK, appt)
}

func (s *Server) rejectAppointment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	role := currentUser(c).Role
	if role != identity.RoleDoctor && role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "doctor or admin access required")
	}
	var req appointment.RejectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Reason == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "a rejection reason is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	// Admins may cancel from any state; doctors only while pending.
	if appt.Status != appointment.StatusPending && role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusBadRequest, "only pending appointments can be rejected")
	}
	appt.Status = appointment.StatusCancelled
	appt.UpdatedAt = wire.NewDateTime(s.now())
	s.rejectReasons[id] = req.Reason
	s.notify(appt.Patient.ID(), notification.TypeAppointmentRejected,
		"Appointment Rejected",
		"Your appointment was rejected: "+req.Reason, id)
	return c.JSON(http.StatusOK, appt)
}
