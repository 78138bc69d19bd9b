package verifier

import (
	"crypto/subtle"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// PublicKeySize is the length of a compressed secp256k1 public key.
const PublicKeySize = 33

// PublicKey is a compressed secp256k1 point: a 0x02/0x03 parity byte followed
// by the 32-byte x coordinate.
type PublicKey [PublicKeySize]byte

// Equal compares two keys in constant time.
func (p PublicKey) Equal(other PublicKey) bool {
	return subtle.ConstantTimeCompare(p[:], other[:]) == 1
}

// RecoverPublicKey reconstructs the signer's key from the digest and a
// signature carrying a recovery id. The recovered key is re-checked against
// the signature so an inconsistent recovery id cannot slip through.
func RecoverPublicKey(digest Digest, sig *Signature) (PublicKey, error) {
	var out PublicKey
	if sig == nil || !sig.HasRecoveryID {
		return out, NewError(KindPubkeyDerivationFailure, "signature carries no recovery id")
	}

	pub, compressed, err := ecdsa.RecoverCompact(sig.compact(), digest[:])
	if err != nil {
		return out, NewError(KindPubkeyDerivationFailure, "recovery failed: %v", err)
	}
	if pub == nil || !pub.IsOnCurve() || !compressed {
		return out, NewError(KindPubkeyDerivationFailure, "recovered point is not a valid compressed key")
	}
	if !ecdsa.NewSignature(&sig.R, &sig.S).Verify(digest[:], pub) {
		return out, NewError(KindPubkeyDerivationFailure, "recovered key does not satisfy the signature")
	}

	copy(out[:], pub.SerializeCompressed())
	return out, nil
}

// ValidatePublicKey checks sig over digest against a key supplied out of band.
// The candidate must be a 33-byte compressed point; a candidate that is not a
// valid point fails with KindPubkeyDerivationFailure, a failing ECDSA equation
// with KindSignatureMismatch.
func ValidatePublicKey(digest Digest, sig *Signature, candidate []byte) (PublicKey, error) {
	var out PublicKey
	if sig == nil {
		return out, NewError(KindInvalidSignature, "missing signature")
	}
	if len(candidate) != PublicKeySize || (candidate[0] != 0x02 && candidate[0] != 0x03) {
		return out, NewError(KindPubkeyDerivationFailure, "public key must be %d-byte compressed", PublicKeySize)
	}

	var x btcec.FieldVal
	if overflow := x.SetByteSlice(candidate[1:]); overflow {
		return out, NewError(KindPubkeyDerivationFailure, "public key x coordinate is >= field prime")
	}

	key, err := ec.ParsePubKey(candidate)
	if err != nil {
		return out, NewError(KindPubkeyDerivationFailure, "invalid public key: %v", err)
	}

	r, s := sig.R.Bytes(), sig.S.Bytes()
	esig := &ec.Signature{
		R: new(big.Int).SetBytes(r[:]),
		S: new(big.Int).SetBytes(s[:]),
	}
	if !esig.Verify(digest[:], key) {
		return out, NewError(KindSignatureMismatch, "signature does not verify against supplied public key")
	}

	copy(out[:], candidate)
	return out, nil
}
