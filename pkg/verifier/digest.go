package verifier

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// MessageMagic is the prefix Bitcoin Core's signmessage/verifymessage commit to.
// Signer and verifier must agree on it, so it is not configurable.
const MessageMagic = "Bitcoin Signed Message:\n"

// varIntProtoVer is the protocol version passed to the wire var-int writers.
// CompactSize encoding does not depend on it.
const varIntProtoVer uint32 = 0

// DigestSize is the length of a message digest in bytes.
const DigestSize = chainhash.HashSize

// Digest is the 32-byte value actually fed into ECDSA.
type Digest [DigestSize]byte

// MessageDigest returns
//
//	SHA256(SHA256(varstr(MessageMagic) || varstr(message)))
//
// where varstr is a CompactSize length followed by the raw bytes.
func MessageDigest(message []byte) Digest {
	var buf bytes.Buffer
	buf.Grow(1 + len(MessageMagic) + wire.VarIntSerializeSize(uint64(len(message))) + len(message))

	// Writes into a bytes.Buffer cannot fail.
	_ = wire.WriteVarString(&buf, varIntProtoVer, MessageMagic)
	_ = wire.WriteVarBytes(&buf, varIntProtoVer, message)

	return Digest(chainhash.DoubleHashH(buf.Bytes()))
}
