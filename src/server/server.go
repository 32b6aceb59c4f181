package server

import (
	"fmt"
	"hematch/src/he"
)

// Evaluator computes encrypted Hamming distances. It only ever holds the
// evaluation key, so it can neither read descriptors nor distances.
type Evaluator struct {
	eval *he.Evaluator
}

func NewEvaluator(evk *he.EvaluationKey) *Evaluator {
	return &Evaluator{eval: he.NewEvaluator(evk)}
}

// ShallowCopy returns an evaluator sharing the keys but not the buffers
func (e *Evaluator) ShallowCopy() *Evaluator {
	return &Evaluator{eval: e.eval.ShallowCopy()}
}

// Distance returns an encryption of the Hamming distance between a and b.
// enc provides the encryption of zero the per-byte counts are added to.
func (e *Evaluator) Distance(a, b *he.Vector, enc *he.Encryptor) (*he.Scalar, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("%w: %d vs %d", he.ErrLengthMismatch, a.Len(), b.Len())
	}

	c, err := e.eval.Xor(a, b)
	if err != nil {
		return nil, err
	}

	acc, err := enc.EncryptScalar(0)
	if err != nil {
		return nil, fmt.Errorf("accumulator: %w", err)
	}

	for i := 0; i < c.Len(); i++ {
		count, err := e.eval.PopCount(c, i)
		if err != nil {
			return nil, err
		}
		if acc, err = e.eval.Add(acc, count); err != nil {
			return nil, err
		}
	}
	return acc, nil
}
