package medicalrecord

import (
	"encoding/json"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := Input{Diagnosis: "Flu", Treatment: "Rest", PatientID: 1, DoctorID: 2}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mutations := map[string]func(*Input){
		"diagnosis": func(in *Input) { in.Diagnosis = "" },
		"treatment": func(in *Input) { in.Treatment = "" },
		"patient":   func(in *Input) { in.PatientID = 0 },
		"doctor":    func(in *Input) { in.DoctorID = 0 },
	}
	for name, mutate := range mutations {
		in := valid
		mutate(&in)
		if err := in.Validate(); err == nil {
			t.Fatalf("missing %s should fail validation", name)
		}
	}
}

func TestRequestUsesNestedRefs(t *testing.T) {
	in := Input{Diagnosis: "Flu", Treatment: "Rest", PatientID: 4, DoctorID: 9}
	data, err := json.Marshal(in.request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded struct {
		Patient struct {
			ID int64 `json:"id"`
		} `json:"patient"`
		Doctor struct {
			ID int64 `json:"id"`
		} `json:"doctor"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Patient.ID != 4 || decoded.Doctor.ID != 9 {
		t.Fatalf("refs not nested: %s", data)
	}
}
