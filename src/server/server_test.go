package server

import (
	"bytes"
	"hematch/configs"
	"hematch/src/he"
	"hematch/src/keys_dealer"
	"hematch/src/utils"
	"math/rand"
	"testing"

	rootutils "hematch/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	enc  *he.Encryptor
	dec  *he.Decryptor
	eval *Evaluator
}

func newFixture(t *testing.T, length int) fixture {
	t.Helper()
	ctx, err := he.NewContext(configs.ParameterSets[configs.ParamSetDefault], length)
	require.NoError(t, err)
	km, err := keys_dealer.Generate(utils.NewLoggerTo(&bytes.Buffer{}, false), ctx)
	require.NoError(t, err)
	return fixture{
		enc:  he.NewEncryptor(km.Public),
		dec:  he.NewDecryptor(km.Private),
		eval: NewEvaluator(km.Evaluation),
	}
}

func (f fixture) distance(t *testing.T, a, b []byte) uint64 {
	t.Helper()
	ctA, err := f.enc.EncryptVector(a)
	require.NoError(t, err)
	ctB, err := f.enc.EncryptVector(b)
	require.NoError(t, err)
	d, err := f.eval.Distance(ctA, ctB, f.enc)
	require.NoError(t, err)
	have, err := f.dec.DecryptScalar(d)
	require.NoError(t, err)
	return have
}

func TestDistance(t *testing.T) {
	f := newFixture(t, configs.DescriptorLength)
	r := rand.New(rand.NewSource(57))
	random := func() []byte {
		b := make([]byte, configs.DescriptorLength)
		r.Read(b)
		return b
	}

	t.Run("Matches the plaintext distance", func(t *testing.T) {
		for k := 0; k < 3; k++ {
			a, b := random(), random()
			assert.Equal(t, uint64(rootutils.HammingDistance(a, b)), f.distance(t, a, b))
		}
	})

	t.Run("Symmetric", func(t *testing.T) {
		a, b := random(), random()
		assert.Equal(t, f.distance(t, a, b), f.distance(t, b, a))
	})

	t.Run("Identity", func(t *testing.T) {
		a := random()
		assert.Equal(t, uint64(0), f.distance(t, a, a))
	})

	t.Run("Maximum distance does not wrap", func(t *testing.T) {
		zeros := make([]byte, configs.DescriptorLength)
		ones := bytes.Repeat([]byte{0xff}, configs.DescriptorLength)
		assert.Equal(t, uint64(256), f.distance(t, zeros, ones))
	})

	t.Run("Single bit", func(t *testing.T) {
		a := make([]byte, configs.DescriptorLength)
		b := make([]byte, configs.DescriptorLength)
		b[configs.DescriptorLength-1] = 0x80
		assert.Equal(t, uint64(1), f.distance(t, a, b))
	})

	t.Run("Concurrent copies", func(t *testing.T) {
		a, b := random(), random()
		ctA, err := f.enc.EncryptVector(a)
		require.NoError(t, err)
		ctB, err := f.enc.EncryptVector(b)
		require.NoError(t, err)

		results := make(chan uint64, 2)
		for w := 0; w < 2; w++ {
			go func(eval *Evaluator, enc *he.Encryptor) {
				d, err := eval.Distance(ctA, ctB, enc)
				if err != nil {
					results <- 1 << 20
					return
				}
				v, err := f.dec.DecryptScalar(d)
				if err != nil {
					results <- 1 << 20
					return
				}
				results <- v
			}(f.eval.ShallowCopy(), f.enc.ShallowCopy())
		}
		want := uint64(rootutils.HammingDistance(a, b))
		assert.Equal(t, want, <-results)
		assert.Equal(t, want, <-results)
	})
}

func TestDistanceLengthMismatch(t *testing.T) {
	long := newFixture(t, 32)
	short := newFixture(t, 16)

	a, err := long.enc.EncryptVector(make([]byte, 32))
	require.NoError(t, err)
	b, err := short.enc.EncryptVector(make([]byte, 16))
	require.NoError(t, err)

	_, err = long.eval.Distance(a, b, long.enc)
	assert.ErrorIs(t, err, he.ErrLengthMismatch)
}
