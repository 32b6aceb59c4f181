package he

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
)

// PrivateKey decrypts. Only the key holder may own it.
type PrivateKey struct {
	ctx        *Context
	generation uuid.UUID
	sk         *rlwe.SecretKey
}

// PublicKey encrypts descriptors and fresh accumulators
type PublicKey struct {
	ctx        *Context
	generation uuid.UUID
	pk         *rlwe.PublicKey
}

// EvaluationKey lets the comparing party run Xor, PopCount and Add
// without being able to decrypt
type EvaluationKey struct {
	ctx        *Context
	generation uuid.UUID
	evk        *rlwe.MemEvaluationKeySet
}

// BindKeys tags three keys produced by the same key generation event so
// that later operations can refuse to mix them with another generation.
func BindKeys(ctx *Context, sk *rlwe.SecretKey, pk *rlwe.PublicKey, evk *rlwe.MemEvaluationKeySet) (*PrivateKey, *PublicKey, *EvaluationKey, error) {
	if sk == nil || pk == nil || evk == nil {
		return nil, nil, nil, fmt.Errorf("incomplete key material")
	}
	gen := uuid.New()
	return &PrivateKey{ctx: ctx, generation: gen, sk: sk},
		&PublicKey{ctx: ctx, generation: gen, pk: pk},
		&EvaluationKey{ctx: ctx, generation: gen, evk: evk},
		nil
}

func (k *PrivateKey) Generation() uuid.UUID    { return k.generation }
func (k *PublicKey) Generation() uuid.UUID     { return k.generation }
func (k *EvaluationKey) Generation() uuid.UUID { return k.generation }

// GaloisKeys returns the number of rotation keys held
func (k *EvaluationKey) GaloisKeys() int {
	return len(k.evk.GetGaloisKeysList())
}

func sameGeneration(want uuid.UUID, got ...uuid.UUID) error {
	for _, g := range got {
		if g != want {
			return fmt.Errorf("%w: %s vs %s", ErrForeignKey, g, want)
		}
	}
	return nil
}
