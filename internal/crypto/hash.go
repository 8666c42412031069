// Package crypto implements HMAC-SHA256 (RFC 2104, FIPS 198-1) on top of
// the SHA-256 compression function and renders digests as lowercase hex.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	// BlockSize is the SHA-256 input block size in bytes.
	BlockSize = sha256.BlockSize
	// Size is the length of an HMAC-SHA256 digest in bytes.
	Size = sha256.Size
	// HexSize is the length of a hex encoded digest.
	HexSize = 2 * Size

	ipad = 0x36
	opad = 0x5c
)

// Compute returns the HMAC-SHA256 of message under key as 64 lowercase hex
// characters. A nil key is the empty key.
func Compute(key, message []byte) string {
	sum := mac(key, message)
	return hex.EncodeToString(sum[:])
}

// SHA256WithKey signs the UTF-8 text message under the UTF-8 text key.
func SHA256WithKey(message, key string) string {
	return Compute([]byte(key), []byte(message))
}

// HashSHA256 signs a raw payload, e.g. an HTTP body, with a text key.
func HashSHA256(data []byte, key string) string {
	return Compute([]byte(key), data)
}

func mac(key, message []byte) [Size]byte {
	var k [BlockSize]byte
	if len(key) > BlockSize {
		reduced := sha256.Sum256(key)
		copy(k[:], reduced[:])
	} else {
		copy(k[:], key)
	}

	var inner, outer [BlockSize]byte
	for i := range k {
		inner[i] = k[i] ^ ipad
		outer[i] = k[i] ^ opad
	}

	h := sha256.New()
	h.Write(inner[:])
	h.Write(message)
	innerDigest := h.Sum(nil)

	h.Reset()
	h.Write(outer[:])
	h.Write(innerDigest)

	var out [Size]byte
	h.Sum(out[:0])
	return out
}
