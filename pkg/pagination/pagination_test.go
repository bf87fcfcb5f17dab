package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC),
		ID:        uuid.New(),
	}

	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got == nil {
		t.Fatal("expected cursor, got nil")
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("created_at mismatch: want %s, got %s", want.CreatedAt, got.CreatedAt)
	}
	if got.ID != want.ID {
		t.Fatalf("id mismatch: want %s, got %s", want.ID, got.ID)
	}
}

func TestDecodeEmptyIsNil(t *testing.T) {
	got, err := Decode("  ")
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil cursor for empty input")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := Decode(Encode(Cursor{})[:4]); err == nil {
		t.Fatal("expected error for truncated cursor")
	}
}

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected 11, got %d", got)
	}
}
