// internal/app/system/dataurl/dataurl.go
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// ErrMissing is returned by FromForm when the named file part is absent.
var ErrMissing = errors.New("dataurl: file missing")

// File is an uploaded file encoded as a data URI.
type File struct {
	Name        string
	ContentType string
	Size        int64
	URI         string
}

// Encode returns data:<mime>;base64,<payload>. An empty contentType is sniffed
// from the first bytes of data.
func Encode(contentType string, data []byte) string {
	ct := strings.TrimSpace(contentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// FromFileHeader reads an uploaded multipart file fully into memory.
func FromFileHeader(fh *multipart.FileHeader) (File, error) {
	f, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	uri := Encode(fh.Header.Get("Content-Type"), data)
	return File{
		Name:        fh.Filename,
		ContentType: MIME(uri),
		Size:        int64(len(data)),
		URI:         uri,
	}, nil
}

// FromForm encodes the first file of the named part of a parsed multipart form.
func FromForm(form *multipart.Form, field string) (File, error) {
	if form == nil || len(form.File[field]) == 0 {
		return File{}, ErrMissing
	}
	return FromFileHeader(form.File[field][0])
}

// MIME returns the media type of a data URI, or "" if uri is not one.
func MIME(uri string) string {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return ""
	}
	end := strings.IndexAny(rest, ";,")
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// Decode returns the media type and payload of a base64 data URI.
func Decode(uri string) (string, []byte, error) {
	head, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(head, "data:") || !strings.HasSuffix(head, ";base64") {
		return "", nil, errors.New("dataurl: not a base64 data URI")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("dataurl: %w", err)
	}
	return MIME(uri), data, nil
}
