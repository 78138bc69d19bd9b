package utils

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-btc-ownership-proof/pkg/verifier"
)

// signCompact returns a header-first compact signature over "hello" made with
// a compressed key derived from seed.
func signCompact(t *testing.T, seed byte) []byte {
	t.Helper()
	key := make([]byte, 32)
	key[31] = seed
	priv, _ := btcec.PrivKeyFromBytes(key)

	digest := verifier.MessageDigest([]byte("hello"))
	return ecdsa.SignCompact(priv, digest[:], true)
}

func TestDecodeSignatureString(t *testing.T) {
	raw := signCompact(t, 1)

	tests := []struct {
		name     string
		input    string
		expected []byte
		wantErr  error
	}{
		{"hex", hex.EncodeToString(raw), raw, nil},
		{"hex with prefix", "0x" + hex.EncodeToString(raw), raw, nil},
		{"hex with upper prefix", "0X" + hex.EncodeToString(raw), raw, nil},
		{"base64", base64.StdEncoding.EncodeToString(raw), raw, nil},
		{"surrounding whitespace", "  " + base64.StdEncoding.EncodeToString(raw) + "\n", raw, nil},
		{"short hex", "abcd", []byte{0xab, 0xcd}, nil},
		{"empty", "", nil, errEmptySignature},
		{"whitespace only", "   ", nil, errEmptySignature},
		{"neither", "not a signature!", nil, errUndecodableSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeSignatureString(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCompactToRecoverable(t *testing.T) {
	for seed := byte(1); seed <= 8; seed++ {
		compact := signCompact(t, seed)

		sig, err := CompactToRecoverable(compact)
		require.NoError(t, err)
		require.Len(t, sig, verifier.RecoverableSignatureSize)
		assert.Equal(t, compact[1:], sig[:verifier.SignatureSize])
		assert.Equal(t, compact[0]-31, sig[verifier.SignatureSize])

		// the converted signature verifies against the signer's address
		key := make([]byte, 32)
		key[31] = seed
		_, pub := btcec.PrivKeyFromBytes(key)
		var pk verifier.PublicKey
		copy(pk[:], pub.SerializeCompressed())
		addr, err := verifier.DeriveAddress(pk).Encode(nil)
		require.NoError(t, err)

		req := verifier.NewSignatureRequest(addr, []byte("hello"), sig)
		require.NoError(t, verifier.New().Verify(req))

		back, err := RecoverableToCompact(sig)
		require.NoError(t, err)
		assert.Equal(t, compact, back)
	}
}

func TestCompactToRecoverableRejects(t *testing.T) {
	valid := signCompact(t, 3)

	withHeader := func(h byte) []byte {
		out := append([]byte(nil), valid...)
		out[0] = h
		return out
	}

	tests := []struct {
		name string
		sig  []byte
	}{
		{"too short", valid[:64]},
		{"too long", append(append([]byte(nil), valid...), 0x00)},
		{"uncompressed header", withHeader(27)},
		{"uncompressed header upper bound", withHeader(30)},
		{"segwit header", withHeader(39)},
		{"zero header", withHeader(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CompactToRecoverable(tt.sig)
			require.Error(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestCompactToRecoverableDoesNotAlias(t *testing.T) {
	compact := signCompact(t, 5)
	orig := append([]byte(nil), compact...)

	sig, err := CompactToRecoverable(compact)
	require.NoError(t, err)
	sig[0] ^= 0xff

	assert.True(t, bytes.Equal(orig, compact))
}

func TestRecoverableToCompactRejects(t *testing.T) {
	sig := make([]byte, verifier.RecoverableSignatureSize)
	sig[verifier.SignatureSize] = 4

	_, err := RecoverableToCompact(sig)
	require.ErrorIs(t, err, errUnsupportedHeader)

	_, err = RecoverableToCompact(sig[:10])
	require.ErrorIs(t, err, errUnexpectedSignatureSz)
}

func TestBytesToHex(t *testing.T) {
	assert.Empty(t, BytesToHex(nil))
	assert.Equal(t, "00ff10", BytesToHex([]byte{0x00, 0xff, 0x10}))

	digest := verifier.MessageDigest([]byte("hello"))
	encoded := BytesToHex(digest[:])
	assert.Len(t, encoded, 2*verifier.DigestSize)
	assert.Equal(t, strings.ToLower(encoded), encoded)
}

func TestHexToBytes(t *testing.T) {
	empty, err := HexToBytes("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	tests := []struct {
		name     string
		input    string
		expected []byte
		wantErr  bool
	}{
		{"lowercase", "00ff10", []byte{0x00, 0xff, 0x10}, false},
		{"uppercase", "00FF10", []byte{0x00, 0xff, 0x10}, false},
		{"prefixed", "0x00ff10", []byte{0x00, 0xff, 0x10}, false},
		{"upper prefix", "0XABCD", []byte{0xab, 0xcd}, false},
		{"odd length", "abc", nil, true},
		{"not hex", "zz", nil, true},
		{"double prefix", "0x0x00", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := HexToBytes(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestWalletSignatureFlow(t *testing.T) {
	// a wallet exports base64(header || r || s); the program takes r || s || id
	compact := signCompact(t, 1)
	exported := base64.StdEncoding.EncodeToString(compact)

	raw, err := DecodeSignatureString(exported)
	require.NoError(t, err)
	sig, err := CompactToRecoverable(raw)
	require.NoError(t, err)

	require.True(t, IsPlausibleP2PKHAddress("1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"))
	req := verifier.NewSignatureRequest("1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", []byte("hello"), sig)
	require.NoError(t, verifier.New().Verify(req))
}
