// Package upload holds the client-side checks applied to file attachments
// before any preview is generated or any network call is made.
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest attachment the client will accept.
const MaxFileSize = 10 * 1024 * 1024 // 10MB

// ErrFileType and ErrFileSize carry the exact user-visible messages for the
// two rejection cases.
var (
	ErrFileType = errors.New("File type not supported. Please upload a PDF or image file (JPG, PNG).")
	ErrFileSize = errors.New("File size exceeds 10MB limit.")
)

var allowedTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// File is an attachment held in memory until submission.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Open reads a file from disk and resolves its content type from the
// extension, falling back to sniffing the content. It does not validate;
// callers run Validate before previewing or uploading.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	name := filepath.Base(path)
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &File{Name: name, ContentType: contentType, Data: data}, nil
}

// Validate enforces the accepted type set and the size limit. Both checks
// run before any preview or upload; type is checked first so an oversized
// file of a rejected type reports the type problem.
func (f *File) Validate() error {
	if !allowedTypes[f.ContentType] {
		return ErrFileType
	}
	if len(f.Data) > MaxFileSize {
		return ErrFileSize
	}
	return nil
}

// Size returns the attachment size in bytes.
func (f *File) Size() int64 { return int64(len(f.Data)) }

// DataURL renders the inline preview representation of the file.
func (f *File) DataURL() string {
	return "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}
