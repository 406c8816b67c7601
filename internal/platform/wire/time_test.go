package wire

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateTimeUnmarshalLayouts(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{`"2024-03-15T09:30:00"`, time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)},
		{`"2024-03-15T09:30:00Z"`, time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)},
		{`"2024-03-15"`, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		var d DateTime
		if err := json.Unmarshal([]byte(tc.raw), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if !d.Equal(tc.want) {
			t.Fatalf("%s parsed to %v, want %v", tc.raw, d.Time, tc.want)
		}
	}
}

func TestDateTimeUnmarshalNull(t *testing.T) {
	var d DateTime
	if err := json.Unmarshal([]byte(`null`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.IsZero() {
		t.Fatal("null should unmarshal to the zero time")
	}
}

func TestDateTimeUnmarshalRejectsGarbage(t *testing.T) {
	var d DateTime
	if err := json.Unmarshal([]byte(`"next tuesday"`), &d); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDateTimeMarshalZoneless(t *testing.T) {
	d := NewDateTime(time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC))
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"2024-03-15T09:30:00"` {
		t.Fatalf("unexpected wire form: %s", data)
	}
}

func TestDateTimeMarshalZeroAsNull(t *testing.T) {
	data, err := json.Marshal(DateTime{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "null" {
		t.Fatalf("zero time should marshal as null, got %s", data)
	}
}

func TestDateRoundTrip(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-03-15"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"2024-03-15"` {
		t.Fatalf("unexpected wire form: %s", data)
	}
}
