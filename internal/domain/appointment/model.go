package appointment

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/healthrecords/healthrecords/internal/domain/identity"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

// Status is the strict appointment status enum. The backend emits several
// shapes for it (mixed-case strings, the legacy REQUESTED spelling, bare
// enum ordinals); ParseStatus maps all of them onto this enum at the JSON
// boundary so every downstream check is plain equality.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusUnknown   Status = ""
)

// ParseStatus normalizes a raw status representation.
func ParseStatus(raw string) Status {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(upper, "PENDING"), strings.Contains(upper, "REQUESTED"):
		return StatusPending
	case strings.Contains(upper, "APPROVED"), strings.Contains(upper, "CONFIRMED"):
		return StatusApproved
	case strings.Contains(upper, "CANCELLED"), strings.Contains(upper, "CANCELED"), strings.Contains(upper, "REJECTED"):
		return StatusCancelled
	case strings.Contains(upper, "COMPLETED"):
		return StatusCompleted
	}
	// Some backend code paths serialize the enum by ordinal.
	if n, err := strconv.Atoi(upper); err == nil {
		switch n {
		case 0:
			return StatusPending
		case 1:
			return StatusApproved
		case 2:
			return StatusCancelled
		case 3:
			return StatusCompleted
		}
	}
	return StatusUnknown
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		raw = strconv.Itoa(n)
	}
	*s = ParseStatus(raw)
	return nil
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// ActorRef is the appointment's patient or doctor reference. Depending on
// the endpoint the backend populates it as either a bare identifier or a
// full user object; the union keeps that distinction explicit instead of
// scattering type checks through views.
type ActorRef struct {
	id   int64
	user *identity.User
}

// RefTo builds an unresolved reference.
func RefTo(id int64) ActorRef {
	return ActorRef{id: id}
}

// RefOf builds a resolved reference.
func RefOf(user identity.User) ActorRef {
	return ActorRef{id: user.ID, user: &user}
}

// ID returns the referenced user id regardless of resolution state.
func (r ActorRef) ID() int64 {
	return r.id
}

// Resolved returns the user when the backend populated the full object.
func (r ActorRef) Resolved() (identity.User, bool) {
	if r.user == nil {
		return identity.User{}, false
	}
	return *r.user, true
}

// Resolve returns the referenced user, fetching it through the supplied
// loader on first use and caching the result.
func (r *ActorRef) Resolve(ctx context.Context, fetch func(context.Context, int64) (*identity.User, error)) (identity.User, error) {
	if r.user != nil {
		return *r.user, nil
	}
	user, err := fetch(ctx, r.id)
	if err != nil {
		return identity.User{}, err
	}
	r.user = user
	return *user, nil
}

// DisplayName renders the actor for lists: the full name when resolved, the
// bare id otherwise.
func (r ActorRef) DisplayName() string {
	if user, ok := r.Resolved(); ok {
		return user.FullName()
	}
	return "#" + strconv.FormatInt(r.id, 10)
}

func (r *ActorRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*r = ActorRef{}
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		*r = ActorRef{id: id}
		return nil
	}

	var user identity.User
	if err := json.Unmarshal(data, &user); err != nil {
		return err
	}
	*r = ActorRef{id: user.ID, user: &user}
	return nil
}

func (r ActorRef) MarshalJSON() ([]byte, error) {
	if r.user != nil {
		return json.Marshal(r.user)
	}
	return json.Marshal(r.id)
}

// Appointment mirrors the backend appointment resource.
type Appointment struct {
	ID                  int64         `json:"id"`
	Patient             ActorRef      `json:"patient"`
	Doctor              ActorRef      `json:"doctor"`
	AppointmentDateTime wire.DateTime `json:"appointmentDateTime"`
	Title               string        `json:"title"`
	Description         string        `json:"description,omitempty"`
	Status              Status        `json:"status"`
	Notes               string        `json:"notes,omitempty"`
	IsVideoConsultation bool          `json:"isVideoConsultation"`
	MeetingLink         string        `json:"meetingLink,omitempty"`
	CreatedAt           wire.DateTime `json:"createdAt,omitempty"`
	UpdatedAt           wire.DateTime `json:"updatedAt,omitempty"`
}

// CreateRequest is the submission payload. Status is deliberately absent:
// non-privileged paths let the server assign the default PENDING, which
// also sidesteps a known column-truncation failure on the backend.
type CreateRequest struct {
	Title               string        `json:"title"`
	Description         string        `json:"description,omitempty"`
	AppointmentDateTime wire.DateTime `json:"appointmentDateTime"`
	DoctorID            int64         `json:"doctorId"`
	PatientID           int64         `json:"patientId"`
	IsVideoConsultation bool          `json:"isVideoConsultation"`
	MeetingLink         string        `json:"meetingLink,omitempty"`
	Notes               string        `json:"notes,omitempty"`
}

// RejectRequest carries the required rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}
