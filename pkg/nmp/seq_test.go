package nmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSeqIDWrapsAfter256(t *testing.T) {
	initial := NextSeqID()
	seen := map[uint8]bool{initial: true}

	for i := 0; i < 255; i++ {
		id := NextSeqID()
		assert.False(t, seen[id], "duplicate sequence id %d within one 256-window", id)
		seen[id] = true
	}

	wrapped := NextSeqID()
	assert.Equal(t, initial, wrapped, "257th call should repeat the first value")
}
