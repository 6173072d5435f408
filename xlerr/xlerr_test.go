package xlerr

import (
	"testing"

	"golang.org/x/xerrors"
)

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf("unimplemented: %s", "trait objects")
	if got, want := err.Error(), "unimplemented: trait objects"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewfPreservesWrappedCause(t *testing.T) {
	cause := xerrors.New("missing operand")
	err := Newf("translating block 3: %w", cause)
	if err.Error() != "translating block 3: missing operand" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !xerrors.Is(err, cause) {
		t.Errorf("expected Newf's %%w argument to be reachable via Unwrap")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := Newf("missing operand")
	wrapped := Wrap("translating block 3", cause)
	if wrapped.Error() != "translating block 3: missing operand" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if !xerrors.Is(wrapped, cause) {
		t.Errorf("expected Wrap's result to unwrap back to cause")
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap("context", nil) != nil {
		t.Error("Wrap(_, nil) should return nil")
	}
}

func TestWithDefAnnotatesExistingError(t *testing.T) {
	err := Newf("unimplemented: floating-point types")
	annotated := WithDef(err, 42)

	var e *Error
	if !xerrors.As(annotated, &e) {
		t.Fatalf("expected annotated error to be *Error, got %T", annotated)
	}
	if e.Def != 42 {
		t.Errorf("Def = %d, want 42", e.Def)
	}
}

func TestWithDefWrapsForeignError(t *testing.T) {
	annotated := WithDef(xerrors.New("boom"), 7)

	var e *Error
	if !xerrors.As(annotated, &e) {
		t.Fatalf("expected annotated error to be *Error, got %T", annotated)
	}
	if e.Def != 7 || e.Error() != "boom" {
		t.Errorf("unexpected annotated error: %+v", e)
	}
}
