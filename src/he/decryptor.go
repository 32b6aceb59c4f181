package he

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

// Decryptor is held by the private key owner. Calls are serialized so a
// single instance can be shared by all workers.
type Decryptor struct {
	mu         sync.Mutex
	ctx        *Context
	generation uuid.UUID
	ecd        *bgv.Encoder
	dec        *rlwe.Decryptor
	slots      []uint64
}

func NewDecryptor(sk *PrivateKey) *Decryptor {
	params := sk.ctx.params
	return &Decryptor{
		ctx:        sk.ctx,
		generation: sk.generation,
		ecd:        bgv.NewEncoder(params),
		dec:        rlwe.NewDecryptor(params, sk.sk),
		slots:      make([]uint64, params.MaxSlots()),
	}
}

// DecryptScalar returns slot 0 of s, in [0, T)
func (d *Decryptor) DecryptScalar(s *Scalar) (uint64, error) {
	if err := sameGeneration(d.generation, s.generation); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.decode(s.ct); err != nil {
		return 0, err
	}
	return d.slots[0], nil
}

// DecryptVector recovers the descriptor bytes of v
func (d *Decryptor) DecryptVector(v *Vector) ([]byte, error) {
	if err := sameGeneration(d.generation, v.generation); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.decode(v.ct); err != nil {
		return nil, err
	}
	desc, err := d.ctx.Unpack(d.slots)
	if err != nil {
		return nil, err
	}
	return desc[:v.length], nil
}

func (d *Decryptor) decode(ct *rlwe.Ciphertext) error {
	if err := d.ecd.Decode(d.dec.DecryptNew(ct), d.slots); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
