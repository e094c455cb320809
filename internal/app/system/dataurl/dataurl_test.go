package dataurl

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		ct   string
		data []byte
		want string
	}{
		{"explicit type", "image/png", []byte("abc"), "data:image/png;base64,YWJj"},
		{"params dropped", "text/plain; charset=utf-8", []byte("hi"), "data:text/plain;base64,aGk="},
		{"sniffed pdf", "", []byte("%PDF-1.4 test"), "data:application/pdf;base64,JVBERi0xLjQgdGVzdA=="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.ct, tt.data); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	mime, data, err := Decode("data:image/jpeg;base64,YWJj")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if mime != "image/jpeg" || string(data) != "abc" {
		t.Errorf("Decode = %q, %q", mime, data)
	}

	for _, bad := range []string{"", "abc", "data:image/png,abc", "data:image/png;base64,!!"} {
		if _, _, err := Decode(bad); err == nil {
			t.Errorf("Decode(%q) expected error", bad)
		}
	}
}

func TestMIME(t *testing.T) {
	if got := MIME("data:application/pdf;base64,AA=="); got != "application/pdf" {
		t.Errorf("MIME = %q", got)
	}
	if got := MIME("https://example.com/x.png"); got != "" {
		t.Errorf("MIME of non data URI = %q", got)
	}
}

func TestFromForm(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="idFront"; filename="front.png"`)
	h.Set("Content-Type", "image/png")
	part, _ := mw.CreatePart(h)
	part.Write([]byte("png-bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}

	f, err := FromForm(req.MultipartForm, "idFront")
	if err != nil {
		t.Fatalf("FromForm: %v", err)
	}
	if f.Name != "front.png" || f.ContentType != "image/png" || f.Size != 9 {
		t.Errorf("unexpected file: %+v", f)
	}
	if _, data, _ := Decode(f.URI); string(data) != "png-bytes" {
		t.Errorf("round trip payload = %q", data)
	}

	if _, err := FromForm(req.MultipartForm, "cor"); !errors.Is(err, ErrMissing) {
		t.Errorf("missing part err = %v, want ErrMissing", err)
	}
}
