package verifier

import (
	"bytes"
	"testing"
)

// FuzzDecodeSignature checks that decoding never panics and that anything it
// accepts re-serializes to the exact input.
func FuzzDecodeSignature(f *testing.F) {
	f.Add([]byte{})
	f.Add(bytes.Repeat([]byte{0x01}, SignatureSize))
	f.Add(bytes.Repeat([]byte{0x01}, RecoverableSignatureSize))
	f.Add(bytes.Repeat([]byte{0xff}, RecoverableSignatureSize))
	f.Add(bytes.Repeat([]byte{0x00}, SignatureSize))
	f.Add(bytes.Repeat([]byte{0x7f}, 66))

	f.Fuzz(func(t *testing.T, data []byte) {
		sig, err := DecodeSignature(data)
		if err != nil {
			if kind, ok := KindOf(err); !ok || kind != KindInvalidSignature {
				t.Fatalf("unexpected error kind for %x: %v", data, err)
			}
			return
		}
		if !bytes.Equal(sig.Serialize(), data) {
			t.Fatalf("round trip mismatch for %x", data)
		}
	})
}

// FuzzVerify feeds arbitrary inputs to the full pipeline. It must never panic
// and must only ever report classified errors.
func FuzzVerify(f *testing.F) {
	f.Add(keyOneAddress, []byte("hello"), bytes.Repeat([]byte{0x01}, RecoverableSignatureSize))
	f.Add(keyOneAddress, []byte(""), bytes.Repeat([]byte{0x02}, SignatureSize))
	f.Add("", []byte("x"), []byte{})
	f.Add("3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", []byte("hello"), []byte{0x00})

	v := New()
	f.Fuzz(func(t *testing.T, addr string, msg, sig []byte) {
		err := v.Verify(NewSignatureRequest(addr, msg, sig))
		if err == nil {
			return
		}
		if _, ok := KindOf(err); !ok {
			t.Fatalf("unclassified error: %v", err)
		}
	})
}
