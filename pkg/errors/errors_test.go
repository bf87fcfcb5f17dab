package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownAndUnknownCodes(t *testing.T) {
	if got := MetadataFor(CodeNotFound).HTTPStatus; got != http.StatusNotFound {
		t.Fatalf("expected 404 for not found, got %d", got)
	}
	if got := MetadataFor(Code("made-up")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown codes should fall back to internal, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("underlying")
	err := Wrap(CodeDependency, cause, "load cart slot")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped error should match its cause via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
	if err.Error() != "DEPENDENCY_ERROR: load cart slot" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestAsUnwrapsThroughFmtErrors(t *testing.T) {
	inner := New(CodeValidation, "quantity must be positive")
	outer := fmt.Errorf("handling request: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error through wrapping")
	}
	if typed.Code() != CodeValidation {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("root"), "top")
	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(dump.Chain))
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad input").WithDetails(map[string]string{"quantity": "must be at least 1"})
	if err.Details() == nil {
		t.Fatal("expected details to be retained")
	}
}
