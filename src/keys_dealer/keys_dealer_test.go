package keys_dealer

import (
	"bytes"
	"hematch/configs"
	"hematch/src/he"
	"hematch/src/utils"
	"testing"

	rootutils "hematch/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestKeysDealer(t *testing.T) {
	var out bytes.Buffer
	logger := utils.NewLoggerTo(&out, true)

	ctx, err := he.NewContext(configs.ParameterSets[configs.ParamSetDefault], configs.DescriptorLength)
	require.NoError(t, err)

	t.Run("Galois elements are sorted and distinct", func(t *testing.T) {
		galEls := GaloisElements(ctx)
		assert.True(t, slices.IsSorted(galEls))
		assert.True(t, rootutils.AllDistinct(galEls))
		assert.LessOrEqual(t, len(galEls), len(he.GaloisElements(ctx)))
	})

	t.Run("Generated keys work together", func(t *testing.T) {
		km, err := Generate(logger, ctx)
		require.NoError(t, err)
		assert.Equal(t, km.Public.Generation(), km.Private.Generation())
		assert.Equal(t, km.Public.Generation(), km.Evaluation.Generation())
		assert.Equal(t, len(GaloisElements(ctx)), km.Evaluation.GaloisKeys())
		assert.Contains(t, out.String(), "[Keys Dealer]")

		desc := bytes.Repeat([]byte{0xa5}, configs.DescriptorLength)
		v, err := he.NewEncryptor(km.Public).EncryptVector(desc)
		require.NoError(t, err)
		have, err := he.NewDecryptor(km.Private).DecryptVector(v)
		require.NoError(t, err)
		assert.Equal(t, desc, have)
	})

	t.Run("Each run is a new generation", func(t *testing.T) {
		a, err := Generate(utils.NewLoggerTo(&bytes.Buffer{}, false), ctx)
		require.NoError(t, err)
		b, err := Generate(utils.NewLoggerTo(&bytes.Buffer{}, false), ctx)
		require.NoError(t, err)
		assert.NotEqual(t, a.Public.Generation(), b.Public.Generation())
	})
}
