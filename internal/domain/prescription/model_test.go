package prescription

import (
	"testing"
	"time"

	"github.com/healthrecords/healthrecords/internal/platform/upload"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

func validInput() Input {
	return Input{
		MedicationName: "Amoxicillin",
		Dosage:         "500mg",
		Instructions:   "Three times daily",
		StartDate:      wire.NewDateTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:        wire.NewDateTime(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
	}
}

func TestValidateAcceptsCompleteInput(t *testing.T) {
	if err := validInput().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatePresenceChecks(t *testing.T) {
	mutations := map[string]func(*Input){
		"medication":   func(in *Input) { in.MedicationName = "" },
		"dosage":       func(in *Input) { in.Dosage = "" },
		"instructions": func(in *Input) { in.Instructions = "" },
		"start date":   func(in *Input) { in.StartDate = wire.DateTime{} },
		"end date":     func(in *Input) { in.EndDate = wire.DateTime{} },
	}
	for name, mutate := range mutations {
		in := validInput()
		mutate(&in)
		if err := in.Validate(); err == nil {
			t.Fatalf("missing %s should fail validation", name)
		}
	}
}

func TestValidateDateOrdering(t *testing.T) {
	in := validInput()
	in.StartDate, in.EndDate = in.EndDate, in.StartDate
	err := in.Validate()
	if err == nil {
		t.Fatal("start after end should fail")
	}
	if err.Error() != "start date must not be after end date" {
		t.Fatalf("unexpected message: %q", err)
	}

	// Equal dates are allowed.
	in = validInput()
	in.EndDate = in.StartDate
	if err := in.Validate(); err != nil {
		t.Fatalf("equal start and end should pass: %v", err)
	}
}

func TestValidateRunsFileChecks(t *testing.T) {
	in := validInput()
	in.File = &upload.File{Name: "notes.txt", ContentType: "text/plain", Data: []byte("x")}
	if err := in.Validate(); err != upload.ErrFileType {
		t.Fatalf("expected ErrFileType, got %v", err)
	}
}
