package mocks

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"
)

// FakePDF returns size bytes that content sniffing recognises as a PDF
func FakePDF(size int) []byte {
	header := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	if size < len(header) {
		size = len(header)
	}
	data := bytes.Repeat([]byte{'0'}, size)
	copy(data, header)
	return data
}

// UploadFile describes the file part of a multipart upload
type UploadFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// MultipartBody encodes fields and an optional file as multipart/form-data.
// It returns the body and the request Content-Type.
func MultipartBody(fields map[string]string, file *UploadFile) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if file != nil {
		field := file.Field
		if field == "" {
			field = "file"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, file.Filename))
		h.Set("Content-Type", file.ContentType)
		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

// FileHeader builds a parsed multipart file header for tests
func FileHeader(t testing.TB, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body, ct, err := MultipartBody(nil, &UploadFile{Filename: filename, ContentType: contentType, Content: content})
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	boundary := ct[len("multipart/form-data; boundary="):]

	form, err := multipart.NewReader(body, boundary).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to parse multipart body: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected one file part, got %d", len(files))
	}
	return files[0]
}
