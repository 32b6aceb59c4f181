package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHammingDistance(t *testing.T) {
	t.Run("Identity", func(t *testing.T) {
		a := []byte{0xde, 0xad, 0xbe, 0xef}
		assert.Equal(t, 0, HammingDistance(a, a))
	})

	t.Run("All bits differ", func(t *testing.T) {
		a := make([]byte, 32)
		b := make([]byte, 32)
		for i := range b {
			b[i] = 0xff
		}
		assert.Equal(t, 256, HammingDistance(a, b))
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := []byte{0x0f, 0x10, 0x81}
		b := []byte{0xf0, 0x11, 0x01}
		assert.Equal(t, HammingDistance(a, b), HammingDistance(b, a))
		assert.Equal(t, 8+1+1, HammingDistance(a, b))
	})
}

func TestHammingWeight(t *testing.T) {
	assert.Equal(t, uint64(0), HammingWeight64(0))
	assert.Equal(t, uint64(64), HammingWeight64(^uint64(0)))
	assert.Equal(t, uint64(3), HammingWeight64(0b1011))

	data := []byte{0xff, 0x01, 0x00, 0x80, 0x0f, 0x00, 0x00, 0x00, 0x03, 0x07}
	assert.Equal(t, uint64(8+1+1+4+2+3), HammingWeightBytes(data))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "00 0a ff", BytesToHex([]byte{0x00, 0x0a, 0xff}))
	assert.True(t, AllDistinct([]uint64{1, 5, 3}))
	assert.False(t, AllDistinct([]uint64{1, 5, 1}))
	assert.Panics(t, func() { HandleError(assert.AnError) })
	assert.NotPanics(t, func() { HandleError(nil) })
}
