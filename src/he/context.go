// Package he wraps the BGV scheme of lattigo behind the handful of
// operations needed to compute a Hamming distance under encryption.
//
// A descriptor of L bytes is packed bit-plane by bit-plane: bit j of byte i
// (j = 0 is the least significant bit) is encoded in slot j*L + i. Each slot
// therefore holds 0 or 1, XOR of two such vectors is (a-b)^2, and summing the
// 8 planes of column i gives the popcount of byte i.
package he

import (
	"errors"
	"fmt"
	"hematch/configs"

	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

var (
	ErrLengthMismatch   = errors.New("descriptor lengths differ")
	ErrAccumulatorRange = errors.New("plaintext modulus cannot hold the maximum distance")
	ErrSlotCapacity     = errors.New("descriptor does not fit in one ciphertext row")
	ErrForeignKey       = errors.New("operands come from a different key generation")
	ErrIndexRange       = errors.New("byte index out of range")
	ErrNotBinary        = errors.New("decrypted slot is not a bit")
)

// Context fixes the BGV parameters and the descriptor length for a run
type Context struct {
	params bgv.Parameters
	length int
}

// NewContext instantiates the parameters and checks they can represent
// every distance between two descriptors of length bytes without wraparound.
func NewContext(lit bgv.ParametersLiteral, length int) (*Context, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length %d", ErrLengthMismatch, length)
	}
	params, err := bgv.NewParametersFromLiteral(lit)
	if err != nil {
		return nil, fmt.Errorf("bgv parameters: %w", err)
	}

	ctx := &Context{params: params, length: length}
	if t := params.PlaintextModulus(); t <= ctx.MaxDistance() {
		return nil, fmt.Errorf("%w: T=%d, max distance %d", ErrAccumulatorRange, t, ctx.MaxDistance())
	}
	if row := params.MaxSlots() / 2; ctx.UsedSlots() > row {
		return nil, fmt.Errorf("%w: need %d slots, a row has %d", ErrSlotCapacity, ctx.UsedSlots(), row)
	}
	return ctx, nil
}

func (c *Context) Parameters() bgv.Parameters { return c.params }

// Length is the descriptor length in bytes
func (c *Context) Length() int { return c.length }

func (c *Context) UsedSlots() int { return configs.BitsPerByte * c.length }

// MaxDistance is the largest Hamming distance two descriptors can have
func (c *Context) MaxDistance() uint64 { return uint64(configs.BitsPerByte * c.length) }

// Pack spreads the bits of desc over the slots, see the package comment
func (c *Context) Pack(desc []byte) ([]uint64, error) {
	if len(desc) != c.length {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrLengthMismatch, len(desc), c.length)
	}
	slots := make([]uint64, c.UsedSlots())
	for i, b := range desc {
		for j := 0; j < configs.BitsPerByte; j++ {
			slots[j*c.length+i] = uint64(b>>j) & 1
		}
	}
	return slots, nil
}

// Unpack is the inverse of Pack
func (c *Context) Unpack(slots []uint64) ([]byte, error) {
	if len(slots) < c.UsedSlots() {
		return nil, fmt.Errorf("%w: %d slots, want at least %d", ErrLengthMismatch, len(slots), c.UsedSlots())
	}
	desc := make([]byte, c.length)
	for i := range desc {
		for j := 0; j < configs.BitsPerByte; j++ {
			bit := slots[j*c.length+i]
			if bit > 1 {
				return nil, fmt.Errorf("%w: slot %d holds %d", ErrNotBinary, j*c.length+i, bit)
			}
			desc[i] |= byte(bit) << j
		}
	}
	return desc, nil
}
