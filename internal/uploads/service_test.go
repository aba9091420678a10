package uploads

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/google/uuid"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

type fakeStore struct {
	saved   map[string][]byte
	removed []string
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: map[string][]byte{}}
}

func (f *fakeStore) Save(relPath string, r io.Reader) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.saved[relPath] = data
	return int64(len(data)), nil
}

func (f *fakeStore) Remove(relPath string) error {
	f.removed = append(f.removed, relPath)
	delete(f.saved, relPath)
	return nil
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("belge", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart form: %v", err)
	}
	headers := req.MultipartForm.File["belge"]
	if len(headers) != 1 {
		t.Fatalf("expected one file header got %d", len(headers))
	}
	return headers[0]
}

func testService(store Store) *Service {
	return NewService(store, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
}

func TestAcceptStoresValidUpload(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)
	userID := uuid.New()

	stored, err := svc.Accept(context.Background(), enums.UploadCategoryProfilePhoto, userID, fileHeader(t, "çiftlik fotoğrafı.png", pngHeader))
	if err != nil {
		t.Fatalf("accept upload: %v", err)
	}
	if !strings.HasPrefix(stored.RelPath, "farmer/"+userID.String()+"/profile/") {
		t.Fatalf("unexpected destination %q", stored.RelPath)
	}
	if stored.MimeType != "image/png" {
		t.Fatalf("expected image/png got %q", stored.MimeType)
	}
	if _, ok := store.saved[stored.RelPath]; !ok {
		t.Fatalf("expected file stored at %q", stored.RelPath)
	}
	if strings.Contains(stored.RelPath, " ") {
		t.Fatalf("expected sanitized name, got %q", stored.RelPath)
	}
}

func TestAcceptRejectsOversizedFile(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	big := make([]byte, 3*megabyte)
	copy(big, pngHeader)
	_, err := svc.Accept(context.Background(), enums.UploadCategoryLogo, uuid.New(), fileHeader(t, "logo.png", big))
	if err == nil {
		t.Fatal("expected oversize rejection")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatal("rejected file must not reach the store")
	}
}

func TestAcceptRejectsDisallowedExtension(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	_, err := svc.Accept(context.Background(), enums.UploadCategoryDocument, uuid.New(), fileHeader(t, "belge.exe", []byte("MZ")))
	if err == nil {
		t.Fatal("expected extension rejection")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatal("rejected file must not reach the store")
	}
}

func TestAcceptRejectsMimeMismatch(t *testing.T) {
	store := newFakeStore()
	svc := testService(store)

	// PDF bytes smuggled in under an image extension.
	_, err := svc.Accept(context.Background(), enums.UploadCategoryProfilePhoto, uuid.New(), fileHeader(t, "foto.png", []byte("%PDF-1.4 fake")))
	if err == nil {
		t.Fatal("expected mime mismatch rejection")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatal("rejected file must not reach the store")
	}
}

func TestAcceptWorksWithoutLogger(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	stored, err := svc.Accept(context.Background(), enums.UploadCategoryDocument, uuid.New(), fileHeader(t, "tapu.pdf", []byte("%PDF-1.4 icerik")))
	if err != nil {
		t.Fatalf("accept upload: %v", err)
	}
	if _, ok := store.saved[stored.RelPath]; !ok {
		t.Fatalf("expected file stored at %q", stored.RelPath)
	}
}

func TestAcceptUnknownCategory(t *testing.T) {
	svc := testService(newFakeStore())
	_, err := svc.Accept(context.Background(), enums.UploadCategory("archive"), uuid.New(), fileHeader(t, "a.pdf", []byte("%PDF-1.4")))
	if err == nil {
		t.Fatal("expected unknown category rejection")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"tapu.pdf":               "tapu.pdf",
		"../../etc/passwd":       "passwd",
		"çiftçi belgesi.pdf":     "ift_i_belgesi.pdf",
		"  ":                     "file",
		"---":                    "file",
		"vergi levhası (1).jpeg": "vergi_levhas___1_.jpeg",
	}
	for input, want := range cases {
		if got := SanitizeFilename(input); got != want {
			t.Fatalf("sanitize %q: expected %q got %q", input, want, got)
		}
	}
}

func TestUniqueFilenameIsPrefixedWithTimestamp(t *testing.T) {
	now := time.Unix(0, 1700000000000000000)
	got := UniqueFilename(now, "tapu.pdf")
	if got != "1700000000000000000_tapu.pdf" {
		t.Fatalf("unexpected unique name %q", got)
	}
}
