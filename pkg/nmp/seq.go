package nmp

import (
	"crypto/rand"
	"sync"
	"sync/atomic"
)

var (
	seqOnce    sync.Once
	seqCounter atomic.Uint32
)

// NextSeqID returns the next process-wide sequence byte, initialized once
// from a non-deterministic source and incremented with 8-bit wraparound.
// It is safe for concurrent use; any 256 consecutive calls return distinct
// values and the 257th repeats the first (spec.md §3, §8).
func NextSeqID() uint8 {
	seqOnce.Do(func() {
		var b [1]byte
		if _, err := rand.Read(b[:]); err != nil {
			b[0] = 0
		}
		seqCounter.Store(uint32(b[0]))
	})
	return uint8(seqCounter.Add(1) - 1)
}
