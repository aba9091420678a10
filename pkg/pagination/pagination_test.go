package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit %d got %d", DefaultLimit, got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("expected max limit %d got %d", MaxLimit, got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough limit 10 got %d", got)
	}
}

func TestLimitWithBuffer(t *testing.T) {
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected 11 got %d", got)
	}
	if got := LimitWithBuffer(0); got != DefaultLimit+1 {
		t.Fatalf("expected %d got %d", DefaultLimit+1, got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2025, 6, 1, 12, 30, 0, 123456789, time.UTC),
		ID:        uuid.New(),
	}

	got, err := ParseCursor(EncodeCursor(want))
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if got == nil {
		t.Fatal("expected cursor, got nil")
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("expected created at %s got %s", want.CreatedAt, got.CreatedAt)
	}
	if got.ID != want.ID {
		t.Fatalf("expected id %s got %s", want.ID, got.ID)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	got, err := ParseCursor("   ")
	if err != nil {
		t.Fatalf("parse empty cursor: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil cursor got %+v", got)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := ParseCursor("bm8tcGlwZS1oZXJl"); err == nil {
		t.Fatal("expected error for cursor without separator")
	}
}
