// Package privacyerr defines the typed errors shared by the privacy core.
//
// Every failure surfaced by the encryption, commitment, stealth-address
// and viewing-key packages carries a Kind so callers can match on the
// failure class without parsing error text. Error messages never include
// private-key material, seeds, or plaintext amounts.
package privacyerr

import (
	"errors"
	"fmt"
)

// Kind classifies a privacy-core failure.
type Kind int

const (
	// KindEncryption covers malformed or undersized ciphertexts and keys.
	KindEncryption Kind = iota + 1
	// KindProofGeneration means a range/validity proof could not be produced.
	KindProofGeneration
	// KindProofVerification means a proof was present but invalid.
	KindProofVerification
	// KindViewingKey covers malformed or unauthorized viewing keys.
	KindViewingKey
	// KindCompliance means a valid viewing key failed a permission,
	// account-scope, or expiry check.
	KindCompliance
	// KindStealthAddress covers malformed meta-addresses, ephemeral keys
	// and announcement memos.
	KindStealthAddress
)

// String returns the kind name used in error text.
func (k Kind) String() string {
	switch k {
	case KindEncryption:
		return "encryption"
	case KindProofGeneration:
		return "proof generation"
	case KindProofVerification:
		return "proof verification"
	case KindViewingKey:
		return "viewing key"
	case KindCompliance:
		return "compliance"
	case KindStealthAddress:
		return "stealth address"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by the privacy core.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "elgamal.Decrypt"
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s error: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without a wrapped cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap creates a typed error around an underlying cause.
func Wrap(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// IsKind checks whether err (or anything it wraps) is a privacy error of
// the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// IsCompliance checks if error is a compliance failure.
func IsCompliance(err error) bool {
	return IsKind(err, KindCompliance)
}

// IsViewingKey checks if error is a viewing-key failure.
func IsViewingKey(err error) bool {
	return IsKind(err, KindViewingKey)
}
