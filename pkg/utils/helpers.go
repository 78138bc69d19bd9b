package utils

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/bsv-blockchain/go-btc-ownership-proof/pkg/verifier"
)

// Values of the header byte of a Bitcoin Core / BIP137 compact signature.
const (
	compactSigMagicOffset = 27
	compactSigCompPubKey  = 4
)

// Static error variables for err113 compliance
var (
	errEmptySignature        = errors.New("signature string is empty")
	errUndecodableSignature  = errors.New("signature is neither hex nor base64")
	errUnsupportedHeader     = errors.New("compact signature header does not describe a compressed P2PKH key")
	errUnexpectedSignatureSz = errors.New("unexpected signature size")
)

//nolint:gochecknoglobals // fixed BIP137 header ranges
var (
	// uncompressedP2PKHHeaders mark signatures over an uncompressed key.
	uncompressedP2PKHHeaders = lo.RangeFrom(compactSigMagicOffset, 4)
	// compressedP2PKHHeaders mark signatures over a compressed key for a P2PKH address.
	compressedP2PKHHeaders = lo.RangeFrom(compactSigMagicOffset+compactSigCompPubKey, 4)
)

// BytesToHex renders digests and hashes the way attestation records store
// them: lowercase, no prefix.
func BytesToHex(data []byte) string {
	return hex.EncodeToString(data)
}

// HexToBytes decodes hex, accepting an optional 0x/0X prefix and either case.
func HexToBytes(hexStr string) ([]byte, error) {
	hexStr = strings.TrimPrefix(strings.TrimPrefix(hexStr, "0x"), "0X")
	return hex.DecodeString(hexStr)
}

// DecodeSignatureString decodes a user-supplied signature given as hex (with or
// without a 0x prefix) or standard base64, the two forms wallets export.
//
// Parameters:
//   - s: The encoded signature
//
// Returns:
//   - []byte: The raw signature bytes
//   - error: errUndecodableSignature if neither encoding applies
func DecodeSignatureString(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errEmptySignature
	}

	if s == "0x" || s == "0X" {
		return nil, errEmptySignature
	}
	if b, err := HexToBytes(s); err == nil {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return nil, errUndecodableSignature
}

// CompactToRecoverable converts a 65-byte Bitcoin Core / BIP137 compact
// signature (header‖r‖s, as produced by signmessage once base64-decoded) into
// the r‖s‖recovery_id layout the program expects. Only headers 31-34
// (compressed key, P2PKH) are accepted, since the program derives addresses
// from compressed keys.
//
// Parameters:
//   - sig: Header-first compact signature bytes
//
// Returns:
//   - []byte: The signature in r‖s‖recovery_id layout (a fresh slice)
//   - error: An error if the size is wrong or the header is unsupported
func CompactToRecoverable(sig []byte) ([]byte, error) {
	if len(sig) != verifier.RecoverableSignatureSize {
		return nil, fmt.Errorf("%w: %d", errUnexpectedSignatureSz, len(sig))
	}

	header := int(sig[0])
	if lo.Contains(uncompressedP2PKHHeaders, header) {
		return nil, fmt.Errorf("%w: header %d signs with an uncompressed key", errUnsupportedHeader, header)
	}
	if !lo.Contains(compressedP2PKHHeaders, header) {
		return nil, fmt.Errorf("%w: header %d", errUnsupportedHeader, header)
	}

	out := make([]byte, 0, verifier.RecoverableSignatureSize)
	out = append(out, sig[1:]...)
	return append(out, byte(header-compactSigMagicOffset-compactSigCompPubKey)), nil
}

// RecoverableToCompact is the inverse of CompactToRecoverable.
func RecoverableToCompact(sig []byte) ([]byte, error) {
	if len(sig) != verifier.RecoverableSignatureSize {
		return nil, fmt.Errorf("%w: %d", errUnexpectedSignatureSz, len(sig))
	}
	id := sig[verifier.SignatureSize]
	if id > verifier.MaxRecoveryID {
		return nil, fmt.Errorf("%w: recovery id %d", errUnsupportedHeader, id)
	}

	out := make([]byte, 0, verifier.RecoverableSignatureSize)
	out = append(out, byte(compactSigMagicOffset+compactSigCompPubKey)+id)
	return append(out, sig[:verifier.SignatureSize]...), nil
}
