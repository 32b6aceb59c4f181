package utils

import (
	"fmt"
	"math/bits"
	"strings"
)

// HandleError checks the error and throws a panic if the error isn't nil
func HandleError(err error) {
	if err != nil {
		fmt.Printf("|-> Error: %s\n", err.Error())
		panic("=== Panic\n ")
	}
}

// HammingDistance returns the number of differing bits between a and b.
// It is the plaintext reference the encrypted distance is checked against.
// Both slices must have the same length, extra bytes of the longer one are ignored.
func HammingDistance(a, b []byte) int {
	n := MinInt(len(a), len(b))
	d := 0
	for i := 0; i < n; i++ {
		d += bits.OnesCount8(a[i] ^ b[i])
	}
	return d
}

// HammingWeight64 returns the hammingweight if the input value.
func HammingWeight64(x uint64) uint64 {
	x -= (x >> 1) & 0x5555555555555555
	x = (x & 0x3333333333333333) + ((x >> 2) & 0x3333333333333333)
	x = (x + (x >> 4)) & 0x0f0f0f0f0f0f0f0f
	return ((x * 0x0101010101010101) & 0xffffffffffffffff) >> 56
}

// HammingWeightBytes sums HammingWeight64 over 8-byte words of data,
// the tail shorter than a word is counted byte by byte.
func HammingWeightBytes(data []byte) uint64 {
	var w uint64
	i := 0
	for ; i+8 <= len(data); i += 8 {
		var word uint64
		for k := 0; k < 8; k++ {
			word |= uint64(data[i+k]) << (8 * k)
		}
		w += HammingWeight64(word)
	}
	for ; i < len(data); i++ {
		w += uint64(bits.OnesCount8(data[i]))
	}
	return w
}

// BytesToHex renders data as space separated hex pairs, used to print
// descriptors in debug mode
func BytesToHex(data []byte) string {
	hexValues := make([]string, len(data))
	for i, v := range data {
		hexValues[i] = fmt.Sprintf("%02x", v)
	}
	return strings.Join(hexValues, " ")
}

// AllDistinct returns true if all elements in s are distinct, and false otherwise.
func AllDistinct(s []uint64) bool {
	m := make(map[uint64]struct{}, len(s))
	for _, si := range s {
		if _, exists := m[si]; exists {
			return false
		}
		m[si] = struct{}{}
	}
	return true
}

// MinInt returns the minimum value of the input of int values.
func MinInt(a, b int) (r int) {
	if a <= b {
		return a
	}
	return b
}
