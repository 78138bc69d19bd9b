// Package program implements the instruction dispatcher: it decodes the raw
// instruction payload into the single supported request shape and hands it to
// the verifier.
package program

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bsv-blockchain/go-btc-ownership-proof/pkg/verifier"
)

// Tag is the leading byte of an encoded instruction.
type Tag uint8

// Instruction tags.
const (
	TagVerifySignature Tag = 0
)

// Static error variables for err113 compliance
var (
	errTruncated       = errors.New("instruction data truncated")
	errTrailingBytes   = errors.New("instruction data has trailing bytes")
	errUnknownTag      = errors.New("unknown instruction tag")
	errInvalidUTF8     = errors.New("address is not valid UTF-8")
	errPayloadTooLarge = errors.New("instruction data exceeds size limit")
)

// Instruction is the closed set of instructions the program understands.
type Instruction interface {
	Tag() Tag
	isInstruction()
}

// VerifySignature asks the program to prove that Signature over Message was
// produced by the key behind BtcAddress.
type VerifySignature struct {
	BtcAddress string
	Message    []byte
	Signature  []byte
}

// Tag implements Instruction.
func (*VerifySignature) Tag() Tag { return TagVerifySignature }

func (*VerifySignature) isInstruction() {}

// Request converts the instruction into a verifier request.
func (ix *VerifySignature) Request() verifier.SignatureRequest {
	return verifier.NewSignatureRequest(ix.BtcAddress, ix.Message, ix.Signature)
}

// EncodeInstruction serializes ix using the borsh layout:
//
//	u8 tag | u32le len | address utf8 | u32le len | message | u32le len | signature
func EncodeInstruction(ix Instruction) ([]byte, error) {
	switch ix := ix.(type) {
	case *VerifySignature:
		if ix == nil {
			return nil, fmt.Errorf("%w: nil %T", errUnknownTag, ix)
		}
		if !utf8.ValidString(ix.BtcAddress) {
			return nil, errInvalidUTF8
		}
		out := make([]byte, 0, 1+3*4+len(ix.BtcAddress)+len(ix.Message)+len(ix.Signature))
		out = append(out, byte(TagVerifySignature))
		out = appendBytes(out, []byte(ix.BtcAddress))
		out = appendBytes(out, ix.Message)
		out = appendBytes(out, ix.Signature)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", errUnknownTag, ix)
	}
}

// DecodeInstruction parses data produced by EncodeInstruction. The whole
// buffer must be consumed; every failure is KindInvalidInstructionData.
func DecodeInstruction(data []byte) (Instruction, error) {
	ix, err := decodeInstruction(data)
	if err != nil {
		return nil, verifier.WrapError(verifier.KindInvalidInstructionData, err)
	}
	return ix, nil
}

func decodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, errTruncated
	}

	r := reader{buf: data[1:]}
	switch Tag(data[0]) {
	case TagVerifySignature:
		addr, err := r.bytes()
		if err != nil {
			return nil, fmt.Errorf("address: %w", err)
		}
		if !utf8.Valid(addr) {
			return nil, errInvalidUTF8
		}
		msg, err := r.bytes()
		if err != nil {
			return nil, fmt.Errorf("message: %w", err)
		}
		sig, err := r.bytes()
		if err != nil {
			return nil, fmt.Errorf("signature: %w", err)
		}
		if len(r.buf) != 0 {
			return nil, fmt.Errorf("%w: %d", errTrailingBytes, len(r.buf))
		}
		return &VerifySignature{BtcAddress: string(addr), Message: msg, Signature: sig}, nil
	default:
		return nil, fmt.Errorf("%w: %d", errUnknownTag, data[0])
	}
}

func appendBytes(out, b []byte) []byte {
	out = binary.LittleEndian.AppendUint32(out, uint32(len(b)))
	return append(out, b...)
}

// reader walks a borsh buffer. Lengths are checked against the remaining
// input before slicing, so nothing is allocated from untrusted lengths.
type reader struct {
	buf []byte
}

func (r *reader) bytes() ([]byte, error) {
	if len(r.buf) < 4 {
		return nil, errTruncated
	}
	n := binary.LittleEndian.Uint32(r.buf)
	r.buf = r.buf[4:]
	if uint64(n) > uint64(len(r.buf)) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", errTruncated, n, len(r.buf))
	}
	out := make([]byte, n)
	copy(out, r.buf[:n])
	r.buf = r.buf[n:]
	return out, nil
}
