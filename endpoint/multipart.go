package endpoint

import (
	"bytes"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kbukum/apikit/corehttp"
)

const crlf = "\r\n"

// Multipart is a multipart/form-data body assembled from ordered parts.
// The boundary is chosen once in NewMultipart.
type Multipart struct {
	boundary string
	parts    bytes.Buffer
}

// NewMultipart creates an empty body with a fresh random boundary.
func NewMultipart() *Multipart {
	return &Multipart{boundary: uuid.NewString()}
}

// Boundary returns the boundary token.
func (m *Multipart) Boundary() string { return m.boundary }

// AppendText appends a plain form field.
func (m *Multipart) AppendText(name, value string) *Multipart {
	m.writePart(name, "", "", []byte(value))
	return m
}

// AppendBytes appends binary content. Empty filename or mimeType are
// omitted from the part headers.
func (m *Multipart) AppendBytes(name string, data []byte, filename string, mimeType corehttp.MimeType) *Multipart {
	m.writePart(name, filename, string(mimeType), data)
	return m
}

// AppendFile appends the file at path using its base name as filename and
// a MIME type inferred from its extension. Unreadable files are skipped.
func (m *Multipart) AppendFile(path, name string) *Multipart {
	data, err := os.ReadFile(path)
	if err != nil {
		return m
	}
	m.writePart(name, filepath.Base(path), mimeTypeFor(path), data)
	return m
}

// ContentType returns the Content-Type header value.
func (m *Multipart) ContentType() string {
	return corehttp.MimeMultipart.String() + "; boundary=" + m.boundary
}

// Body returns a fresh copy of the serialized body, terminated by the
// closing boundary. It only reads m, so concurrent calls are safe as long
// as no part is being appended.
func (m *Multipart) Body() []byte {
	body := make([]byte, 0, m.Len())
	body = append(body, m.parts.Bytes()...)
	return append(body, "--"+m.boundary+"--"...)
}

// Len returns the byte length of Body.
func (m *Multipart) Len() int {
	return m.parts.Len() + len(m.boundary) + 4
}

func (m *Multipart) writePart(name, filename, mimeType string, payload []byte) {
	b := &m.parts
	b.WriteString("--" + m.boundary + crlf)
	b.WriteString(corehttp.HeaderContentDisposition.String() + `: form-data; name="` + name + `"`)
	if filename != "" {
		b.WriteString(`; filename="` + filename + `"`)
	}
	b.WriteString(crlf)
	if mimeType != "" {
		b.WriteString(corehttp.HeaderContentType.String() + ": " + mimeType + crlf)
	}
	b.WriteString(crlf)
	b.Write(payload)
	b.WriteString(crlf)
}

func mimeTypeFor(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	return corehttp.MimeBinary.String()
}
