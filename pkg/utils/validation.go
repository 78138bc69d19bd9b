// Package utils provides client-side helpers for preparing ownership proofs:
// decoding user-supplied signatures, converting wallet compact signatures to
// the program's layout, and cheap pre-checks on addresses and messages before
// an instruction is built.
package utils

import (
	"regexp"
	"unicode/utf8"
)

// Compiled regex patterns for validation
var (
	// p2pkhAddressRegex matches the shape of a base58 P2PKH address: a
	// mainnet ('1') or testnet/regtest ('m', 'n') version character followed by
	// base58 characters. It does not verify the checksum.
	p2pkhAddressRegex = regexp.MustCompile(`^[1mn][1-9A-HJ-NP-Za-km-z]{25,33}$`)
)

// IsPlausibleP2PKHAddress checks if the provided string looks like a base58
// P2PKH address. It is a pre-check only; the verifier performs the
// authoritative checksum and network validation.
//
// Parameters:
//   - addr: The address string to check
//
// Returns:
//   - bool: true if the string has the shape of a P2PKH address
//
// Examples:
//   - Plausible: "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"
//   - Not plausible: "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy" (P2SH), "bc1q..." (bech32)
func IsPlausibleP2PKHAddress(addr string) bool {
	return p2pkhAddressRegex.MatchString(addr)
}

// IsValidMessage checks that a message can be carried in an instruction of at
// most maxSize bytes alongside an address and a recoverable signature.
//
// Parameters:
//   - message: The message to be signed
//   - address: The claimed address
//   - maxSize: The instruction size limit; non-positive means unlimited
//
// Returns:
//   - bool: true if the message is valid UTF-8 and fits
func IsValidMessage(message []byte, address string, maxSize int) bool {
	if !utf8.Valid(message) {
		return false
	}
	if maxSize <= 0 {
		return true
	}
	// tag + three u32 length prefixes + a 65-byte signature
	const overhead = 1 + 3*4 + 65
	return overhead+len(address)+len(message) <= maxSize
}
