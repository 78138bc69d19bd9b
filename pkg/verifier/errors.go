package verifier

import (
	"errors"
	"fmt"
)

// ErrorKind identifies why a verification failed. The numeric value is the
// custom error code surfaced to the host runtime, so existing values must never
// be renumbered.
type ErrorKind uint32

const (
	// KindInvalidSignature means the signature bytes have the wrong length or
	// r/s/recovery id are out of range.
	KindInvalidSignature ErrorKind = iota
	// KindSignatureMismatch means ECDSA validation failed or the derived
	// address differs from the claimed one.
	KindSignatureMismatch
	// KindPubkeyDerivationFailure means no valid public key could be obtained.
	KindPubkeyDerivationFailure
	// KindNotImplemented is reserved for instruction variants without a handler.
	KindNotImplemented
	// KindInvalidAddressFormat means the claimed address could not be decoded
	// into a P2PKH hash for the configured network.
	KindInvalidAddressFormat
	// KindInvalidInstructionData means the instruction envelope could not be decoded.
	KindInvalidInstructionData
)

var kindNames = map[ErrorKind]string{
	KindInvalidSignature:        "Invalid Signature",
	KindSignatureMismatch:       "Signature Mismatch",
	KindPubkeyDerivationFailure: "Pubkey Derivation Failure",
	KindNotImplemented:          "Not Implemented",
	KindInvalidAddressFormat:    "Invalid Address Format",
	KindInvalidInstructionData:  "Invalid Instruction Data",
}

// String returns the human readable name of the kind.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Error Kind (%d)", uint32(k))
}

// Code returns the custom error code reported to the host.
func (k ErrorKind) Code() uint32 {
	return uint32(k)
}

// VerificationError is returned by every failing step. Msg carries detail for
// operators; it never contains key material.
type VerificationError struct {
	Kind  ErrorKind
	Msg   string
	Cause error
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap returns the underlying cause, if any.
func (e *VerificationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is a VerificationError of the same kind, which lets
// callers match with errors.Is(err, ErrSignatureMismatch) regardless of Msg.
func (e *VerificationError) Is(target error) bool {
	var t *VerificationError
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel values for errors.Is matching.
var (
	ErrInvalidSignature        = &VerificationError{Kind: KindInvalidSignature}
	ErrSignatureMismatch       = &VerificationError{Kind: KindSignatureMismatch}
	ErrPubkeyDerivationFailure = &VerificationError{Kind: KindPubkeyDerivationFailure}
	ErrNotImplemented          = &VerificationError{Kind: KindNotImplemented}
	ErrInvalidAddressFormat    = &VerificationError{Kind: KindInvalidAddressFormat}
	ErrInvalidInstructionData  = &VerificationError{Kind: KindInvalidInstructionData}
)

// NewError builds a VerificationError of the given kind.
func NewError(kind ErrorKind, format string, args ...any) error {
	return &VerificationError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapError builds a VerificationError of the given kind around cause, which
// stays reachable through errors.Is and errors.As.
func WrapError(kind ErrorKind, cause error) error {
	if cause == nil {
		return &VerificationError{Kind: kind}
	}
	return &VerificationError{Kind: kind, Msg: cause.Error(), Cause: cause}
}

// KindOf extracts the ErrorKind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var verr *VerificationError
	if errors.As(err, &verr) && verr != nil {
		return verr.Kind, true
	}
	return 0, false
}
