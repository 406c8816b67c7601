package medicalrecord

import (
	"fmt"

	"github.com/healthrecords/healthrecords/internal/domain/identity"
	"github.com/healthrecords/healthrecords/internal/domain/labreport"
	"github.com/healthrecords/healthrecords/internal/domain/prescription"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

// MedicalRecord mirrors the backend medical record resource. Doctor and
// patient arrive as full user objects from this endpoint family.
type MedicalRecord struct {
	ID            int64                       `json:"id"`
	Diagnosis     string                      `json:"diagnosis"`
	Treatment     string                      `json:"treatment"`
	Notes         string                      `json:"notes,omitempty"`
	Doctor        identity.User               `json:"doctor"`
	Patient       identity.User               `json:"patient"`
	Prescriptions []prescription.Prescription `json:"prescriptions,omitempty"`
	LabReports    []labreport.LabReport       `json:"labReports,omitempty"`
	CreatedAt     wire.DateTime               `json:"createdAt,omitempty"`
	UpdatedAt     wire.DateTime               `json:"updatedAt,omitempty"`
}

// userRef is the submission shape for doctor/patient: a bare id wrapped in
// an object, which is what the backend binds.
type userRef struct {
	ID int64 `json:"id"`
}

// CreateRequest is the medical record submission payload.
type CreateRequest struct {
	Diagnosis string  `json:"diagnosis"`
	Treatment string  `json:"treatment"`
	Notes     string  `json:"notes,omitempty"`
	Patient   userRef `json:"patient"`
	Doctor    userRef `json:"doctor"`
}

// Input is what the form collects.
type Input struct {
	Diagnosis string
	Treatment string
	Notes     string
	PatientID int64
	DoctorID  int64
}

// Validate performs the field-level presence checks the form runs before
// allowing submission.
func (in Input) Validate() error {
	if in.Diagnosis == "" {
		return fmt.Errorf("diagnosis is required")
	}
	if in.Treatment == "" {
		return fmt.Errorf("treatment is required")
	}
	if in.PatientID == 0 {
		return fmt.Errorf("patient is required")
	}
	if in.DoctorID == 0 {
		return fmt.Errorf("doctor is required")
	}
	return nil
}

func (in Input) request() CreateRequest {
	return CreateRequest{
		Diagnosis: in.Diagnosis,
		Treatment: in.Treatment,
		Notes:     in.Notes,
		Patient:   userRef{ID: in.PatientID},
		Doctor:    userRef{ID: in.DoctorID},
	}
}
