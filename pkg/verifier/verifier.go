// Package verifier proves that the holder of a Bitcoin private key signed a
// message, and binds that proof to a claimed P2PKH address.
//
// Verification is a pure function of its inputs: a claimed address, a message
// and a signature. The message is hashed with the Bitcoin Signed Message
// convention (see MessageDigest), the signer's public key is recovered from an
// r‖s‖recovery_id signature (or checked against a key supplied out of band for
// plain r‖s signatures), and hash160 of that key is compared in constant time
// against the decoded claimed address.
//
// Every failure is a *VerificationError whose Kind tells malformed input apart
// from a genuine mismatch.
package verifier

import (
	"github.com/btcsuite/btcd/chaincfg"
)

// SignatureRequest is one verification request. It is immutable: the
// constructor and accessors copy byte slices.
type SignatureRequest struct {
	claimedAddress string
	message        []byte
	signature      []byte
	publicKey      []byte
}

// NewSignatureRequest builds a request from the claimed address, the signed
// message and the raw signature bytes.
func NewSignatureRequest(claimedAddress string, message, signature []byte) SignatureRequest {
	return SignatureRequest{
		claimedAddress: claimedAddress,
		message:        cloneBytes(message),
		signature:      cloneBytes(signature),
	}
}

// WithPublicKey returns a copy of the request carrying an out-of-band
// compressed public key, used to validate signatures without a recovery id.
func (r SignatureRequest) WithPublicKey(pub []byte) SignatureRequest {
	r.publicKey = cloneBytes(pub)
	return r
}

// ClaimedAddress returns the address the caller claims to control.
func (r SignatureRequest) ClaimedAddress() string { return r.claimedAddress }

// Message returns a copy of the signed message.
func (r SignatureRequest) Message() []byte { return cloneBytes(r.message) }

// Signature returns a copy of the raw signature bytes.
func (r SignatureRequest) Signature() []byte { return cloneBytes(r.signature) }

// PublicKey returns a copy of the out-of-band public key, or nil.
func (r SignatureRequest) PublicKey() []byte { return cloneBytes(r.publicKey) }

// Verifier runs the verification pipeline for one network.
type Verifier struct {
	params *chaincfg.Params
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithChainParams selects the network whose P2PKH addresses are accepted.
func WithChainParams(params *chaincfg.Params) Option {
	return func(v *Verifier) {
		if params != nil {
			v.params = params
		}
	}
}

// New creates a Verifier. Without options it accepts mainnet addresses.
func New(opts ...Option) *Verifier {
	v := &Verifier{params: &chaincfg.MainNetParams}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Params returns the network the verifier accepts addresses for.
func (v *Verifier) Params() *chaincfg.Params {
	return v.params
}

// Verify returns nil when req.Signature was produced by the key whose hash160
// equals the decoded claimed address. The first failing step is returned
// as is; nothing is retried.
func (v *Verifier) Verify(req SignatureRequest) error {
	claimed, err := DecodeAddress(req.claimedAddress, v.params)
	if err != nil {
		return err
	}

	digest := MessageDigest(req.message)

	sig, err := DecodeSignature(req.signature)
	if err != nil {
		return err
	}

	pub, err := v.resolvePublicKey(digest, sig, req.publicKey)
	if err != nil {
		return err
	}

	if !DeriveAddress(pub).Equal(claimed) {
		return NewError(KindSignatureMismatch, "signing key does not match claimed address")
	}
	return nil
}

// resolvePublicKey picks recovery or validation mode depending on whether the
// signature carries a recovery id.
func (v *Verifier) resolvePublicKey(digest Digest, sig *Signature, supplied []byte) (PublicKey, error) {
	if !sig.HasRecoveryID {
		if len(supplied) == 0 {
			return PublicKey{}, NewError(KindPubkeyDerivationFailure,
				"signature has no recovery id and no public key was supplied")
		}
		return ValidatePublicKey(digest, sig, supplied)
	}

	pub, err := RecoverPublicKey(digest, sig)
	if err != nil {
		return PublicKey{}, err
	}
	if len(supplied) > 0 {
		var want PublicKey
		if len(supplied) != PublicKeySize {
			return PublicKey{}, NewError(KindPubkeyDerivationFailure, "public key must be %d-byte compressed", PublicKeySize)
		}
		copy(want[:], supplied)
		if !pub.Equal(want) {
			return PublicKey{}, NewError(KindSignatureMismatch, "recovered key differs from supplied public key")
		}
	}
	return pub, nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
