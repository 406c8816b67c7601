package labreport

import (
	"fmt"

	"github.com/healthrecords/healthrecords/internal/domain/identity"
	"github.com/healthrecords/healthrecords/internal/platform/upload"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

// LabReport mirrors the backend lab report resource, including the metadata
// of an attached file when one was uploaded.
type LabReport struct {
	ID              int64         `json:"id"`
	Patient         identity.User `json:"patient"`
	Doctor          identity.User `json:"doctor"`
	MedicalRecordID int64         `json:"medicalRecordId,omitempty"`
	TestName        string        `json:"testName"`
	TestResults     string        `json:"testResults"`
	FileURL         string        `json:"fileUrl,omitempty"`
	FileName        string        `json:"fileName,omitempty"`
	FileType        string        `json:"fileType,omitempty"`
	FileSize        int64         `json:"fileSize,omitempty"`
	TestDate        wire.DateTime `json:"testDate"`
	ReportDate      wire.DateTime `json:"reportDate"`
	CreatedAt       wire.DateTime `json:"createdAt,omitempty"`
	UpdatedAt       wire.DateTime `json:"updatedAt,omitempty"`
}

type userRef struct {
	ID int64 `json:"id"`
}

// CreateRequest is the JSON metadata part of the multipart submission.
type CreateRequest struct {
	TestName        string        `json:"testName"`
	TestResults     string        `json:"testResults"`
	TestDate        wire.DateTime `json:"testDate"`
	ReportDate      wire.DateTime `json:"reportDate"`
	Patient         userRef       `json:"patient"`
	Doctor          userRef       `json:"doctor"`
	MedicalRecordID int64         `json:"medicalRecordId,omitempty"`
}

// Input is what the form collects, including the optional held attachment.
type Input struct {
	TestName        string
	TestResults     string
	TestDate        wire.DateTime
	ReportDate      wire.DateTime
	PatientID       int64
	DoctorID        int64
	MedicalRecordID int64
	File            *upload.File
}

// Validate performs the form's presence checks, then the attachment checks.
// File validation runs before any preview or network call.
func (in Input) Validate() error {
	if in.TestName == "" {
		return fmt.Errorf("test name is required")
	}
	if in.TestResults == "" {
		return fmt.Errorf("test results are required")
	}
	if in.TestDate.IsZero() {
		return fmt.Errorf("test date is required")
	}
	if in.ReportDate.IsZero() {
		return fmt.Errorf("report date is required")
	}
	if in.PatientID == 0 {
		return fmt.Errorf("patient is required")
	}
	if in.DoctorID == 0 {
		return fmt.Errorf("doctor is required")
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
		TestName:        in.TestName,
		TestResults:     in.TestResults,
		TestDate:        in.TestDate,
		ReportDate:      in.ReportDate,
		Patient:         userRef{ID: in.PatientID},
		Doctor:          userRef{ID: in.DoctorID},
		MedicalRecordID: in.MedicalRecordID,
	}
}
