package notification

import (
	"encoding/json"
	"strings"

	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

// Type enumerates the appointment-lifecycle events a notification can
// describe.
type Type string

const (
	TypeAppointmentRequested Type = "APPOINTMENT_REQUESTED"
	TypeAppointmentConfirmed Type = "APPOINTMENT_CONFIRMED"
	TypeAppointmentRejected  Type = "APPOINTMENT_REJECTED"
	TypeAppointmentCancelled Type = "APPOINTMENT_CANCELLED"
	TypeAppointmentReminder  Type = "APPOINTMENT_REMINDER"
	TypeSystem               Type = "SYSTEM"
)

func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Type(strings.ToUpper(strings.TrimSpace(s)))
	return nil
}

// Notification mirrors the backend notification resource. The addressee and
// related appointment arrive as bare ids from the list endpoints.
type Notification struct {
	ID                   int64         `json:"id"`
	UserID               int64         `json:"userId,omitempty"`
	Title                string        `json:"title"`
	Message              string        `json:"message"`
	Type                 Type          `json:"type"`
	IsRead               bool          `json:"isRead"`
	RelatedAppointmentID int64         `json:"relatedAppointmentId,omitempty"`
	CreatedAt            wire.DateTime `json:"createdAt,omitempty"`
}
