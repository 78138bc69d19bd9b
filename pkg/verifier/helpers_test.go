package verifier

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

// keyOne is the private key 1, whose compressed public key is the generator G.
// Its mainnet P2PKH address is a well known test vector.
const keyOneAddress = "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"

func scalarKey(b byte) []byte {
	key := make([]byte, 32)
	key[31] = b
	return key
}

func testKey(t testing.TB, seed byte) *btcec.PrivateKey {
	t.Helper()
	priv, _ := btcec.PrivKeyFromBytes(scalarKey(seed))
	return priv
}

// signRecoverable signs message with the Bitcoin message convention and returns
// the r‖s‖recovery_id form this package accepts.
func signRecoverable(t testing.TB, priv *btcec.PrivateKey, message []byte) []byte {
	t.Helper()
	digest := MessageDigest(message)
	compact := ecdsa.SignCompact(priv, digest[:], true)
	require.Len(t, compact, RecoverableSignatureSize)

	out := make([]byte, 0, RecoverableSignatureSize)
	out = append(out, compact[1:]...)
	return append(out, compact[0]-27-4)
}

func compressedKey(priv *btcec.PrivateKey) PublicKey {
	var pub PublicKey
	copy(pub[:], priv.PubKey().SerializeCompressed())
	return pub
}

func addressFor(t testing.TB, priv *btcec.PrivateKey, params *chaincfg.Params) string {
	t.Helper()
	addr, err := DeriveAddress(compressedKey(priv)).Encode(params)
	require.NoError(t, err)
	return addr
}

func requireKind(t testing.TB, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	got, ok := KindOf(err)
	require.True(t, ok, "error %v carries no kind", err)
	require.Equal(t, kind, got, "unexpected error: %v", err)
}
