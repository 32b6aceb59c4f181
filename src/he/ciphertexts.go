package he

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
)

// Vector is an encrypted descriptor
type Vector struct {
	ctx        *Context
	generation uuid.UUID
	length     int
	ct         *rlwe.Ciphertext

	// per-byte popcounts, filled by the first PopCount call
	countsOnce sync.Once
	counts     *rlwe.Ciphertext
	countsErr  error
}

// Len is the number of descriptor bytes, not the number of slots
func (v *Vector) Len() int { return v.length }

func (v *Vector) Generation() uuid.UUID { return v.generation }

// MarshalBinary serializes the underlying ciphertext, it is used to measure
// what the encrypting party sends
func (v *Vector) MarshalBinary() ([]byte, error) { return v.ct.MarshalBinary() }

// Scalar is an encrypted distance accumulator, slot 0 carries the value
type Scalar struct {
	ctx        *Context
	generation uuid.UUID
	ct         *rlwe.Ciphertext
}

func (s *Scalar) Generation() uuid.UUID { return s.generation }

func (s *Scalar) MarshalBinary() ([]byte, error) { return s.ct.MarshalBinary() }
