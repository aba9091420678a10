package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
)

func newTestStore(t *testing.T) *Local {
	t.Helper()
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	return store
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := newTestStore(t)
	content := []byte("tarla tapusu ekinde")

	written, err := store.Save("farmer/abc/documents/tapu.pdf", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("save file: %v", err)
	}
	if written != int64(len(content)) {
		t.Fatalf("expected %d bytes written got %d", len(content), written)
	}

	f, info, err := store.Open("farmer/abc/documents/tapu.pdf")
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	defer f.Close()

	if info.Size() != int64(len(content)) {
		t.Fatalf("expected size %d got %d", len(content), info.Size())
	}
	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	cases := []string{
		"../../etc/passwd",
		"..",
		"farmer/../../outside.txt",
		"/etc/passwd",
		"",
		".",
	}
	for _, rel := range cases {
		_, err := store.Resolve(rel)
		if err == nil {
			t.Fatalf("expected %q to be rejected", rel)
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden for %q, got %v", rel, err)
		}
	}
}

func TestSaveRefusesTraversal(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Save("../escape.txt", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected traversal save to fail")
	}
}

func TestOpenMissingFileIsNotFound(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.Open("farmer/abc/documents/yok.pdf")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save("a/b.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("save file: %v", err)
	}
	if err := store.Remove("a/b.txt"); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := store.Remove("a/b.txt"); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
}
