package verifier

import (
	"github.com/btcsuite/btcd/btcec/v2"
)

const (
	// scalarSize is the serialized size of r and s.
	scalarSize = 32
	// SignatureSize is the length of an r‖s signature without recovery id.
	SignatureSize = 2 * scalarSize
	// RecoverableSignatureSize is the length of an r‖s‖recovery_id signature.
	RecoverableSignatureSize = SignatureSize + 1
	// MaxRecoveryID is the largest recovery id accepted.
	MaxRecoveryID = 3
)

// Signature is a decoded ECDSA signature. R and S are guaranteed to be in
// [1, N-1]. RecoveryID is meaningful only when HasRecoveryID is true.
type Signature struct {
	R             btcec.ModNScalar
	S             btcec.ModNScalar
	RecoveryID    byte
	HasRecoveryID bool
}

// DecodeSignature parses a 64-byte r‖s or 65-byte r‖s‖recovery_id signature.
// Both scalars are big-endian. Every malformed input fails with
// KindInvalidSignature.
func DecodeSignature(b []byte) (*Signature, error) {
	if len(b) != SignatureSize && len(b) != RecoverableSignatureSize {
		return nil, NewError(KindInvalidSignature,
			"signature must be %d or %d bytes, got %d", SignatureSize, RecoverableSignatureSize, len(b))
	}

	var sig Signature
	if overflow := sig.R.SetByteSlice(b[:scalarSize]); overflow {
		return nil, NewError(KindInvalidSignature, "signature R is >= curve order")
	}
	if sig.R.IsZero() {
		return nil, NewError(KindInvalidSignature, "signature R is 0")
	}
	if overflow := sig.S.SetByteSlice(b[scalarSize:SignatureSize]); overflow {
		return nil, NewError(KindInvalidSignature, "signature S is >= curve order")
	}
	if sig.S.IsZero() {
		return nil, NewError(KindInvalidSignature, "signature S is 0")
	}

	if len(b) == RecoverableSignatureSize {
		id := b[SignatureSize]
		if id > MaxRecoveryID {
			return nil, NewError(KindInvalidSignature, "recovery id %d out of range [0, %d]", id, MaxRecoveryID)
		}
		sig.RecoveryID = id
		sig.HasRecoveryID = true
	}

	return &sig, nil
}

// Serialize encodes the signature back into the form DecodeSignature accepts.
func (s *Signature) Serialize() []byte {
	size := SignatureSize
	if s.HasRecoveryID {
		size = RecoverableSignatureSize
	}
	out := make([]byte, size)
	s.R.PutBytesUnchecked(out[:scalarSize])
	s.S.PutBytesUnchecked(out[scalarSize:SignatureSize])
	if s.HasRecoveryID {
		out[SignatureSize] = s.RecoveryID
	}
	return out
}

// compact renders the signature in the header‖r‖s layout used by
// ecdsa.RecoverCompact, always flagged as a compressed key.
func (s *Signature) compact() []byte {
	const (
		compactSigMagicOffset = 27
		compactSigCompPubKey  = 4
	)
	out := make([]byte, RecoverableSignatureSize)
	out[0] = compactSigMagicOffset + compactSigCompPubKey + s.RecoveryID
	s.R.PutBytesUnchecked(out[1 : 1+scalarSize])
	s.S.PutBytesUnchecked(out[1+scalarSize:])
	return out
}
