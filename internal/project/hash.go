package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш содержимого файла модели.
type Digest [32]byte

// DigestOf hashes raw file content.
func DigestOf(data []byte) Digest {
	return sha256.Sum256(data)
}

// Combine строит хеш юнита: H( content || extra1 || extra2 ... ).
// Порядок extra должен быть детерминированным.
func Combine(content Digest, extra ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range extra {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex digits.
func (d Digest) Short() string {
	return d.String()[:12]
}
