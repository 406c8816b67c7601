package upload

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestValidateAcceptedTypes(t *testing.T) {
	for _, ct := range []string{"application/pdf", "image/jpeg", "image/jpg", "image/png"} {
		f := &File{Name: "x", ContentType: ct, Data: []byte("data")}
		if err := f.Validate(); err != nil {
			t.Fatalf("%s should be accepted: %v", ct, err)
		}
	}
}

func TestValidateRejectedTypes(t *testing.T) {
	for _, ct := range []string{"image/gif", "text/plain", "application/zip", ""} {
		f := &File{Name: "x", ContentType: ct, Data: []byte("data")}
		err := f.Validate()
		if !errors.Is(err, ErrFileType) {
			t.Fatalf("%s should be rejected with ErrFileType, got %v", ct, err)
		}
	}
}

func TestValidateSizeBoundary(t *testing.T) {
	atLimit := &File{ContentType: "application/pdf", Data: make([]byte, MaxFileSize)}
	if err := atLimit.Validate(); err != nil {
		t.Fatalf("file at exactly the limit should pass: %v", err)
	}

	overLimit := &File{ContentType: "application/pdf", Data: make([]byte, MaxFileSize+1)}
	if err := overLimit.Validate(); !errors.Is(err, ErrFileSize) {
		t.Fatalf("expected ErrFileSize, got %v", err)
	}
}

func TestValidateTypeCheckedBeforeSize(t *testing.T) {
	// An oversized file of a rejected type reports the type problem.
	f := &File{ContentType: "application/zip", Data: make([]byte, MaxFileSize+1)}
	if err := f.Validate(); !errors.Is(err, ErrFileType) {
		t.Fatalf("expected ErrFileType, got %v", err)
	}
}

func TestErrorMessagesAreDistinct(t *testing.T) {
	if ErrFileType.Error() == ErrFileSize.Error() {
		t.Fatal("type and size errors must carry distinct messages")
	}
	if !strings.Contains(ErrFileType.Error(), "PDF") {
		t.Fatalf("type message should name the accepted formats: %q", ErrFileType.Error())
	}
	if !strings.Contains(ErrFileSize.Error(), "10MB") {
		t.Fatalf("size message should name the limit: %q", ErrFileSize.Error())
	}
}

func TestDataURL(t *testing.T) {
	f := &File{ContentType: "image/png", Data: []byte{1, 2, 3}}
	url := f.DataURL()
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("unexpected data URL prefix: %q", url)
	}
}

func TestSize(t *testing.T) {
	f := &File{Data: bytes.Repeat([]byte{0}, 42)}
	if f.Size() != 42 {
		t.Fatalf("expected size 42, got %d", f.Size())
	}
}
