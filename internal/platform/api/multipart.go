package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/healthrecords/healthrecords/internal/platform/upload"
)

// PostMultipart submits a create request whose body is a JSON metadata part
// (named after the resource, e.g. "labReport") plus an optional file part.
func (c *Client) PostMultipart(ctx context.Context, path, partName string, meta interface{}, file *upload.File, out interface{}) error {
	body, contentType, err := buildMultipart(partName, meta, file)
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, http.MethodPost, path, body, contentType, out, true)
}

// PutMultipart is the update-side counterpart of PostMultipart.
func (c *Client) PutMultipart(ctx context.Context, path, partName string, meta interface{}, file *upload.File, out interface{}) error {
	body, contentType, err := buildMultipart(partName, meta, file)
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, http.MethodPut, path, body, contentType, out, true)
}

func buildMultipart(partName string, meta interface{}, file *upload.File) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, partName))
	metaHeader.Set("Content-Type", "application/json")
	part, err := w.CreatePart(metaHeader)
	if err != nil {
		return nil, "", &Error{Kind: KindUnexpected, Message: MsgUnexpected}
	}
	if err := json.NewEncoder(part).Encode(meta); err != nil {
		return nil, "", &Error{Kind: KindUnexpected, Message: MsgUnexpected}
	}

	if file != nil {
		fileHeader := textproto.MIMEHeader{}
		fileHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
		fileHeader.Set("Content-Type", file.ContentType)
		filePart, err := w.CreatePart(fileHeader)
		if err != nil {
			return nil, "", &Error{Kind: KindUnexpected, Message: MsgUnexpected}
		}
		if _, err := filePart.Write(file.Data); err != nil {
			return nil, "", &Error{Kind: KindUnexpected, Message: MsgUnexpected}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", &Error{Kind: KindUnexpected, Message: MsgUnexpected}
	}
	return buf, w.FormDataContentType(), nil
}
