package prescription

import (
	"fmt"

	"github.com/healthrecords/healthrecords/internal/platform/upload"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

// Prescription mirrors the backend prescription resource. PatientName and
// DoctorName are denormalized display-only strings some endpoints include.
type Prescription struct {
	ID              int64         `json:"id"`
	MedicalRecordID int64         `json:"medicalRecordId,omitempty"`
	MedicationName  string        `json:"medicationName"`
	Dosage          string        `json:"dosage"`
	Instructions    string        `json:"instructions"`
	StartDate       wire.DateTime `json:"startDate"`
	EndDate         wire.DateTime `json:"endDate"`
	FileURL         string        `json:"fileUrl,omitempty"`
	FileName        string        `json:"fileName,omitempty"`
	FileType        string        `json:"fileType,omitempty"`
	FileSize        int64         `json:"fileSize,omitempty"`
	PatientName     string        `json:"patientName,omitempty"`
	DoctorName      string        `json:"doctorName,omitempty"`
	CreatedAt       wire.DateTime `json:"createdAt,omitempty"`
	UpdatedAt       wire.DateTime `json:"updatedAt,omitempty"`
}

// CreateRequest is the prescription submission payload (the JSON metadata
// part when a file rides along).
type CreateRequest struct {
	MedicalRecordID int64         `json:"medicalRecordId,omitempty"`
	MedicationName  string        `json:"medicationName"`
	Dosage          string        `json:"dosage"`
	Instructions    string        `json:"instructions"`
	StartDate       wire.DateTime `json:"startDate"`
	EndDate         wire.DateTime `json:"endDate"`
}

// Input is what the form collects.
type Input struct {
	MedicalRecordID int64
	MedicationName  string
	Dosage          string
	Instructions    string
	StartDate       wire.DateTime
	EndDate         wire.DateTime
	File            *upload.File
}

// Validate performs the presence checks plus the start/end ordering rule,
// then the attachment checks.
func (in Input) Validate() error {
	if in.MedicationName == "" {
		return fmt.Errorf("medication name is required")
	}
	if in.Dosage == "" {
		return fmt.Errorf("dosage is required")
	}
	if in.Instructions == "" {
		return fmt.Errorf("instructions are required")
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if in.EndDate.IsZero() {
		return fmt.Errorf("end date is required")
	}
	if in.StartDate.After(in.EndDate.Time) {
		return fmt.Errorf("start date must not be after end date")
	}
	if in.File != nil {
		if err := in.File.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (in Input) request() CreateRequest {
	return CreateRequest{
		MedicalRecordID: in.MedicalRecordID,
		MedicationName:  in.MedicationName,
		Dosage:          in.Dosage,
		Instructions:    in.Instructions,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
	}
}
