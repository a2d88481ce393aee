package buffer

import (
	"crypto/md5"
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// Fingerprint hashes the shape and sample bits into a stable UUID string.
// Buffers with identical shape and samples share a fingerprint.
func (b *Buffer) Fingerprint() string {
	hasher := md5.New()
	var word [8]byte
	for _, d := range []int{b.Rank, b.Height, b.Width, b.Channels} {
		binary.LittleEndian.PutUint64(word[:], uint64(d))
		hasher.Write(word[:])
	}
	for _, v := range b.Pix {
		binary.LittleEndian.PutUint64(word[:], math.Float64bits(v))
		hasher.Write(word[:])
	}
	hash := hasher.Sum(nil)
	id, err := uuid.FromBytes(hash[:16])
	if err != nil {
		return ""
	}
	return id.String()
}
