package he

import (
	"fmt"
	"hematch/configs"

	"github.com/google/uuid"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

// Evaluator computes on ciphertexts with the evaluation key only.
// Not safe for concurrent use, each worker takes a ShallowCopy.
type Evaluator struct {
	ctx        *Context
	generation uuid.UUID
	eval       *bgv.Evaluator
}

func NewEvaluator(evk *EvaluationKey) *Evaluator {
	return &Evaluator{
		ctx:        evk.ctx,
		generation: evk.generation,
		eval:       bgv.NewEvaluator(evk.ctx.params, evk.evk),
	}
}

func (e *Evaluator) ShallowCopy() *Evaluator {
	return &Evaluator{ctx: e.ctx, generation: e.generation, eval: e.eval.ShallowCopy()}
}

// Xor returns the slot-wise XOR of a and b, computed as (a-b)^2 which is
// exact on {0,1} slots
func (e *Evaluator) Xor(a, b *Vector) (*Vector, error) {
	if err := sameGeneration(e.generation, a.generation, b.generation); err != nil {
		return nil, err
	}
	if a.length != b.length {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a.length, b.length)
	}
	diff, err := e.eval.SubNew(a.ct, b.ct)
	if err != nil {
		return nil, fmt.Errorf("sub: %w", err)
	}
	sq, err := e.eval.MulRelinNew(diff, diff)
	if err != nil {
		return nil, fmt.Errorf("square: %w", err)
	}
	return &Vector{ctx: e.ctx, generation: e.generation, length: a.length, ct: sq}, nil
}

// PopCount returns a scalar whose slot 0 is the number of set bits of byte i
// of v. The 8 bit planes are summed once per vector, further calls only rotate.
func (e *Evaluator) PopCount(v *Vector, i int) (*Scalar, error) {
	if err := sameGeneration(e.generation, v.generation); err != nil {
		return nil, err
	}
	if i < 0 || i >= v.length {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexRange, i, v.length)
	}

	v.countsOnce.Do(func() {
		out := bgv.NewCiphertext(e.ctx.params, 1, v.ct.Level())
		if err := e.eval.InnerSum(v.ct, v.length, configs.BitsPerByte, out); err != nil {
			v.countsErr = fmt.Errorf("inner sum: %w", err)
			return
		}
		v.counts = out
	})
	if v.countsErr != nil {
		return nil, v.countsErr
	}

	var ct *rlwe.Ciphertext
	if i == 0 {
		ct = v.counts
	} else {
		var err error
		if ct, err = e.eval.RotateColumnsNew(v.counts, i); err != nil {
			return nil, fmt.Errorf("rotate by %d: %w", i, err)
		}
	}
	return &Scalar{ctx: e.ctx, generation: e.generation, ct: ct}, nil
}

// Add returns a+b, the result is a fresh ciphertext
func (e *Evaluator) Add(a, b *Scalar) (*Scalar, error) {
	if err := sameGeneration(e.generation, a.generation, b.generation); err != nil {
		return nil, err
	}
	ct, err := e.eval.AddNew(a.ct, b.ct)
	if err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}
	return &Scalar{ctx: e.ctx, generation: e.generation, ct: ct}, nil
}

// GaloisElements lists the rotations PopCount needs for descriptors of ctx:
// the inner sum over the bit planes and a column rotation per byte index.
// The result may contain duplicates.
func GaloisElements(ctx *Context) []uint64 {
	galEls := rlwe.GaloisElementsForInnerSum(ctx.params, ctx.length, configs.BitsPerByte)
	for i := 1; i < ctx.length; i++ {
		galEls = append(galEls, ctx.params.GaloisElement(i))
	}
	return galEls
}
