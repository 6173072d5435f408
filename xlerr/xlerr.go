// Package xlerr is the translator's shared error taxonomy (spec §7): a
// single wrapped-error type for categories 1–3 (unsupported construct,
// structural anomaly, missing operand), all of which bubble up to a
// per-item translation boundary and are captured rather than aborting the
// run. It is a leaf package so that typetr, transpile, and item can all
// produce and inspect the same error shape without an import cycle between
// them.
package xlerr

import "golang.org/x/xerrors"

// Error is a descriptive, localized translation failure: an unsupported
// construct, a violated structural assumption, or an unnameable operand
// (spec §7 categories 1–3). Def is the definition id the failure should be
// attributed to when bubbling to the per-item boundary; it is left unset
// (zero value) by errors raised before a current item is known.
// Error's Msg is always the fully rendered message (cause text already
// folded in, if any); err is kept separately purely so Unwrap can expose
// the chain.
type Error struct {
	Msg string
	Def int32 // mirrors frontend.DefID's underlying type; 0 means "unset"
	err error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.err }

// Newf builds a category 1–3 error, wrapping cause if non-nil, in the
// manner of golang.org/x/xerrors.Errorf ("%w"-chainable): a %w verb in
// format is preserved as the returned error's Unwrap target rather than
// flattened away.
func Newf(format string, args ...any) error {
	wrapped := xerrors.Errorf(format, args...)
	return &Error{Msg: wrapped.Error(), err: xerrors.Unwrap(wrapped)}
}

// Wrap attaches additional context to an existing error without losing it,
// equivalent to xerrors.Errorf("%s: %w", context, err).
func Wrap(context string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Msg: context + ": " + err.Error(), err: err}
}

// WithDef annotates err with the definition id it should be reported
// against, if err is (or wraps) an *Error.
func WithDef(err error, def int32) error {
	var e *Error
	if xerrors.As(err, &e) {
		e.Def = def
		return e
	}
	return &Error{Msg: err.Error(), Def: def, err: err}
}
