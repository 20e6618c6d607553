package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: DefaultLimit},
		{in: -3, want: DefaultLimit},
		{in: 10, want: 10},
		{in: MaxLimit, want: MaxLimit},
		{in: MaxLimit + 50, want: MaxLimit},
	}
	for _, tt := range tests {
		if got := NormalizeLimit(tt.in); got != tt.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLimitWithBuffer(t *testing.T) {
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected 11, got %d", got)
	}
	if got := LimitWithBuffer(0); got != DefaultLimit+1 {
		t.Fatalf("expected %d, got %d", DefaultLimit+1, got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		ID:        uuid.New(),
	}

	encoded := EncodeCursor(want)
	got, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("ParseCursor returned error: %v", err)
	}
	if got == nil {
		t.Fatal("ParseCursor returned nil cursor")
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("timestamp mismatch: got %s want %s", got.CreatedAt, want.CreatedAt)
	}
	if got.ID != want.ID {
		t.Fatalf("id mismatch: got %s want %s", got.ID, want.ID)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	got, err := ParseCursor("   ")
	if err != nil {
		t.Fatalf("empty cursor should not error: %v", err)
	}
	if got != nil {
		t.Fatal("empty cursor should return nil")
	}
}

func TestParseCursorMalformed(t *testing.T) {
	cases := []string{
		"%%not-base64%%",
		"bm8tcGlwZS1oZXJl",         // decodes without a separator
		"bm90LWEtdGltZXxub3QtaWQ=", // bad timestamp
	}
	for _, in := range cases {
		if _, err := ParseCursor(in); err == nil {
			t.Fatalf("expected error for cursor %q", in)
		}
	}
}
