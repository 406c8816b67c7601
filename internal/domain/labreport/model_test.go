package labreport

import (
	"testing"
	"time"

	"github.com/healthrecords/healthrecords/internal/platform/upload"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

func validInput() Input {
	return Input{
		TestName:    "CBC",
		TestResults: "Within normal range",
		TestDate:    wire.NewDateTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		ReportDate:  wire.NewDateTime(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
		PatientID:   1,
		DoctorID:    2,
	}
}

func TestValidateAcceptsCompleteInput(t *testing.T) {
	if err := validInput().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatePresenceChecks(t *testing.T) {
	mutations := map[string]func(*Input){
		"test name":   func(in *Input) { in.TestName = "" },
		"results":     func(in *Input) { in.TestResults = "" },
		"test date":   func(in *Input) { in.TestDate = wire.DateTime{} },
		"report date": func(in *Input) { in.ReportDate = wire.DateTime{} },
		"patient":     func(in *Input) { in.PatientID = 0 },
		"doctor":      func(in *Input) { in.DoctorID = 0 },
	}
	for name, mutate := range mutations {
		in := validInput()
		mutate(&in)
		if err := in.Validate(); err == nil {
			t.Fatalf("missing %s should fail validation", name)
		}
	}
}

func TestValidateRunsFileChecks(t *testing.T) {
	in := validInput()
	in.File = &upload.File{Name: "big.pdf", ContentType: "application/pdf", Data: make([]byte, upload.MaxFileSize+1)}
	if err := in.Validate(); err != upload.ErrFileSize {
		t.Fatalf("expected ErrFileSize, got %v", err)
	}

	in.File = &upload.File{Name: "scan.png", ContentType: "image/png", Data: []byte{1}}
	if err := in.Validate(); err != nil {
		t.Fatalf("valid attachment should pass: %v", err)
	}
}
