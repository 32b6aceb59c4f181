package he

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

// Encryptor encrypts under a public key. It is not safe for concurrent use,
// give each goroutine its own ShallowCopy.
type Encryptor struct {
	ctx        *Context
	generation uuid.UUID
	ecd        *bgv.Encoder
	enc        *rlwe.Encryptor
}

func NewEncryptor(pk *PublicKey) *Encryptor {
	params := pk.ctx.params
	return &Encryptor{
		ctx:        pk.ctx,
		generation: pk.generation,
		ecd:        bgv.NewEncoder(params),
		enc:        rlwe.NewEncryptor(params, pk.pk),
	}
}

func (e *Encryptor) ShallowCopy() *Encryptor {
	return &Encryptor{
		ctx:        e.ctx,
		generation: e.generation,
		ecd:        e.ecd.ShallowCopy(),
		enc:        e.enc.ShallowCopy(),
	}
}

// EncryptVector packs desc bit-plane by bit-plane and encrypts it
func (e *Encryptor) EncryptVector(desc []byte) (*Vector, error) {
	slots, err := e.ctx.Pack(desc)
	if err != nil {
		return nil, err
	}
	ct, err := e.encrypt(slots)
	if err != nil {
		return nil, err
	}
	return &Vector{ctx: e.ctx, generation: e.generation, length: len(desc), ct: ct}, nil
}

// EncryptScalar encrypts value in slot 0, every other slot is zero
func (e *Encryptor) EncryptScalar(value uint64) (*Scalar, error) {
	if t := e.ctx.params.PlaintextModulus(); value >= t {
		return nil, fmt.Errorf("%w: %d >= T=%d", ErrAccumulatorRange, value, t)
	}
	ct, err := e.encrypt([]uint64{value})
	if err != nil {
		return nil, err
	}
	return &Scalar{ctx: e.ctx, generation: e.generation, ct: ct}, nil
}

func (e *Encryptor) encrypt(values []uint64) (*rlwe.Ciphertext, error) {
	params := e.ctx.params
	pt := bgv.NewPlaintext(params, params.MaxLevel())
	if err := e.ecd.Encode(values, pt); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	ct, err := e.enc.EncryptNew(pt)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}
	return ct, nil
}
