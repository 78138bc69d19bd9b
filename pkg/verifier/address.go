package verifier

import (
	"crypto/subtle"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// AddressHashSize is the length of a hash160.
const AddressHashSize = 20

// AddressHash is the canonical form of a P2PKH address: hash160 of the
// compressed public key. Two addresses are equal iff their hashes are.
type AddressHash [AddressHashSize]byte

// DeriveAddress returns hash160(SHA256 then RIPEMD160) of the compressed key.
func DeriveAddress(pub PublicKey) AddressHash {
	var out AddressHash
	copy(out[:], btcutil.Hash160(pub[:]))
	return out
}

// DecodeAddress decodes a base58check P2PKH address for params. Any other
// address type, a bad checksum or an address for another network fails with
// KindInvalidAddressFormat.
func DecodeAddress(addr string, params *chaincfg.Params) (AddressHash, error) {
	var out AddressHash
	if params == nil {
		params = &chaincfg.MainNetParams
	}

	decoded, err := btcutil.DecodeAddress(addr, params)
	if err != nil {
		return out, NewError(KindInvalidAddressFormat, "could not decode address: %v", err)
	}

	pkh, ok := decoded.(*btcutil.AddressPubKeyHash)
	if !ok {
		return out, NewError(KindInvalidAddressFormat, "address type %T is not P2PKH", decoded)
	}
	if !pkh.IsForNet(params) {
		return out, NewError(KindInvalidAddressFormat, "address is not for network %s", params.Name)
	}

	copy(out[:], pkh.Hash160()[:])
	return out, nil
}

// Encode renders the hash as a base58check P2PKH address for params.
func (h AddressHash) Encode(params *chaincfg.Params) (string, error) {
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	addr, err := btcutil.NewAddressPubKeyHash(h[:], params)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// Equal compares all 20 bytes in constant time.
func (h AddressHash) Equal(other AddressHash) bool {
	return subtle.ConstantTimeCompare(h[:], other[:]) == 1
}
