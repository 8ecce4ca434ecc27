package endpoint

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/apikit/corehttp"
)

func TestNewMultipart_Boundary(t *testing.T) {
	a, b := NewMultipart(), NewMultipart()
	if _, err := uuid.Parse(a.Boundary()); err != nil {
		t.Errorf("boundary should be a UUID, got %q", a.Boundary())
	}
	if a.Boundary() == b.Boundary() {
		t.Error("boundaries must be unique per instance")
	}
	if want := "multipart/form-data; boundary=" + a.Boundary(); a.ContentType() != want {
		t.Errorf("expected %q, got %q", want, a.ContentType())
	}
}

func TestMultipart_WireFormat(t *testing.T) {
	m := NewMultipart().
		AppendText("title", "hello").
		AppendBytes("blob", []byte{0x01, 0x02}, "b.bin", corehttp.MimeBinary).
		AppendBytes("raw", []byte("x"), "", "")
	B := m.Boundary()

	want := "--" + B + "\r\n" +
		"Content-Disposition: form-data; name=\"title\"\r\n" +
		"\r\n" +
		"hello\r\n" +
		"--" + B + "\r\n" +
		"Content-Disposition: form-data; name=\"blob\"; filename=\"b.bin\"\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"\r\n" +
		"\x01\x02\r\n" +
		"--" + B + "\r\n" +
		"Content-Disposition: form-data; name=\"raw\"\r\n" +
		"\r\n" +
		"x\r\n" +
		"--" + B + "--"

	if got := string(m.Body()); got != want {
		t.Errorf("unexpected body:\n got: %q\nwant: %q", got, want)
	}
	if m.Len() != len(want) {
		t.Errorf("expected length %d, got %d", len(want), m.Len())
	}
}

func TestMultipart_BodyIsIdempotent(t *testing.T) {
	m := NewMultipart().AppendText("a", "1")
	first := append([]byte(nil), m.Body()...)
	second := m.Body()
	if !bytes.Equal(first, second) {
		t.Error("reading the body twice must return identical bytes")
	}
	if strings.Count(string(second), "--"+m.Boundary()+"--") != 1 {
		t.Error("closing boundary must appear exactly once")
	}

	m.AppendText("b", "2")
	if !strings.HasSuffix(string(m.Body()), "2\r\n--"+m.Boundary()+"--") {
		t.Errorf("appending after a read must extend the body, got %q", m.Body())
	}
}

func TestMultipart_EmptyBody(t *testing.T) {
	m := NewMultipart()
	if got := string(m.Body()); got != "--"+m.Boundary()+"--" {
		t.Errorf("expected only the closing boundary, got %q", got)
	}
}

func TestMultipart_AppendFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		file     string
		wantMime string
	}{
		{"photo.png", "image/png"},
		{"notes.txt", "text/plain"},
		{"data.zzzunknown", "application/octet-stream"},
	}
	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			m := NewMultipart().AppendFile(write(tc.file, "content"), "upload")
			body := string(m.Body())
			wantHeader := "Content-Disposition: form-data; name=\"upload\"; filename=\"" + tc.file + "\"\r\n" +
				"Content-Type: " + tc.wantMime + "\r\n\r\ncontent\r\n"
			if !strings.Contains(body, wantHeader) {
				t.Errorf("expected part %q in body %q", wantHeader, body)
			}
		})
	}
}

func TestMultipart_AppendFileUnreadableIsSkipped(t *testing.T) {
	m := NewMultipart().
		AppendText("a", "1").
		AppendFile(filepath.Join(t.TempDir(), "missing.png"), "file")

	if strings.Contains(string(m.Body()), "name=\"file\"") {
		t.Error("unreadable file must not produce a part")
	}
	if strings.Count(string(m.Body()), "--"+m.Boundary()+"\r\n") != 1 {
		t.Errorf("expected exactly one part, got %q", m.Body())
	}
}

func TestMultipart_ParsedByGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/upload", func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		f, _ := fh.Open()
		defer f.Close()
		data, _ := io.ReadAll(f)
		c.JSON(http.StatusOK, gin.H{
			"title":    c.PostForm("title"),
			"filename": fh.Filename,
			"type":     fh.Header.Get("Content-Type"),
			"size":     len(data),
		})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	ep := Endpoint{
		Scheme: corehttp.HTTP,
		Host:   host,
		Path:   "/upload",
		Method: corehttp.MethodPost,
		Multipart: NewMultipart().
			AppendText("title", "quarterly").
			AppendBytes("file", []byte("%PDF-1.4"), "report.pdf", corehttp.MimePDF),
	}

	req, err := Materialize(context.Background(), ep, nil)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	for _, want := range []string{`"title":"quarterly"`, `"filename":"report.pdf"`, `"type":"application/pdf"`, `"size":8`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %s in %s", want, body)
		}
	}
}
