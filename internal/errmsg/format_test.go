package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	err := errors.New("connection refused")

	got := Format(OpCatalogLoad, err)
	want := "Failed to load catalog: connection refused"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormat_NilError(t *testing.T) {
	if got := Format(OpSignin, nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
}

func TestFormatWith(t *testing.T) {
	err := errors.New("status 404")

	got := FormatWith(OpSelectionLoad, "Daily mix", err)
	want := "Failed to load selection 'Daily mix': status 404"
	if got != want {
		t.Errorf("FormatWith() = %q, want %q", got, want)
	}
}

func TestFormatWith_EmptyContext(t *testing.T) {
	err := errors.New("timeout")

	got := FormatWith(OpFavoriteToggle, "", err)
	want := "Failed to update favorites: timeout"
	if got != want {
		t.Errorf("FormatWith() = %q, want %q", got, want)
	}
}
