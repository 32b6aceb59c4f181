package classifier

import (
	"bytes"
	"fmt"
	"hematch/configs"
	"hematch/src/he"
	"hematch/src/keys_dealer"
	"hematch/src/utils"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	assert.True(t, Decide(57, 57))
	assert.True(t, Decide(0, 0))
	assert.False(t, Decide(58, 57))

	t.Run("Monotonic in tau", func(t *testing.T) {
		for d := uint64(0); d <= 256; d += 7 {
			prev := false
			for tau := uint32(0); tau <= 256; tau++ {
				cur := Decide(d, tau)
				assert.False(t, prev && !cur, "d=%d tau=%d", d, tau)
				prev = cur
			}
		}
	})
}

func TestClassify(t *testing.T) {
	ctx, err := he.NewContext(configs.ParameterSets[configs.ParamSetDefault], 4)
	require.NoError(t, err)
	km, err := keys_dealer.Generate(utils.NewLoggerTo(&bytes.Buffer{}, false), ctx)
	require.NoError(t, err)

	enc := he.NewEncryptor(km.Public)
	dec := he.NewDecryptor(km.Private)

	d, err := enc.EncryptScalar(57)
	require.NoError(t, err)

	same, distance, err := Classify(d, dec, 57)
	require.NoError(t, err)
	assert.True(t, same)
	assert.Equal(t, uint64(57), distance)

	same, _, err = Classify(d, dec, 56)
	require.NoError(t, err)
	assert.False(t, same)
}

func TestConfusionCounts(t *testing.T) {
	var c ConfusionCounts
	c.Record(true, true)
	c.Record(false, false)
	c.Record(false, false)
	c.Record(true, false)
	c.Record(false, true)
	assert.Empty(t, cmp.Diff(ConfusionCounts{TP: 1, TN: 2, FP: 1, FN: 1}, c))
	assert.Equal(t, uint64(5), c.Total())

	acc, err := c.Accuracy()
	require.NoError(t, err)
	assert.InDelta(t, 0.6, acc, 1e-12)
	assert.InDelta(t, 0.5, c.TPR(), 1e-12)
	assert.InDelta(t, 1.0/3.0, c.FPR(), 1e-12)

	t.Run("Zero pairs", func(t *testing.T) {
		_, err := ConfusionCounts{}.Accuracy()
		assert.ErrorIs(t, err, ErrUndefinedAccuracy)
		assert.Zero(t, ConfusionCounts{}.TPR())
	})

	t.Run("Original experiment", func(t *testing.T) {
		c := ConfusionCounts{TP: 78, TN: 3040, FP: 1796, FN: 36}
		acc, err := c.Accuracy()
		require.NoError(t, err)
		assert.Equal(t, "0.630", fmt.Sprintf("%.3f", acc))
	})
}

func TestAggregator(t *testing.T) {
	outcomes := []Outcome{
		{A: "A_1", B: "A_2", Distance: 10, Actual: true, Predicted: true},
		{A: "A_1", B: "B_1", Distance: 120, Actual: false, Predicted: false},
		{A: "A_2", B: "B_1", Distance: 50, Actual: false, Predicted: true},
		{A: "B_1", B: "B_2", Distance: 90, Actual: true, Predicted: false},
	}

	agg := NewAggregator()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(o Outcome) {
			defer wg.Done()
			agg.Add(o)
		}(outcomes[i%len(outcomes)])
	}
	wg.Wait()

	assert.Equal(t, ConfusionCounts{TP: 25, TN: 25, FP: 25, FN: 25}, agg.Counts())
	assert.Len(t, agg.Outcomes(), 100)

	other := NewAggregator()
	other.Add(outcomes[0])
	agg.Merge(other)
	assert.Equal(t, uint64(26), agg.Counts().TP)
	assert.Len(t, agg.Outcomes(), 101)
}

func TestSweep(t *testing.T) {
	outcomes := []Outcome{
		{Distance: 10, Actual: true},
		{Distance: 60, Actual: true},
		{Distance: 40, Actual: false},
		{Distance: 120, Actual: false},
	}

	points := Sweep(outcomes, []uint32{57, 0, 57, 100})
	want := []OperatingPoint{
		{Tau: 0, Counts: ConfusionCounts{TN: 2, FN: 2}},
		{Tau: 57, Counts: ConfusionCounts{TP: 1, TN: 1, FP: 1, FN: 1}},
		{Tau: 100, Counts: ConfusionCounts{TP: 2, TN: 1, FP: 1}},
	}
	assert.Empty(t, cmp.Diff(want, points))

	best, err := Best(points)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), best.Tau)

	_, err = Best(nil)
	assert.ErrorIs(t, err, ErrUndefinedAccuracy)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]Outcome{
		{Distance: 10, Actual: true},
		{Distance: 20, Actual: true},
		{Distance: 30, Actual: true},
		{Distance: 100, Actual: false},
	})
	require.NoError(t, err)
	require.NotNil(t, s.Genuine)
	require.NotNil(t, s.Impostor)
	assert.Equal(t, 3, s.Genuine.Count)
	assert.Equal(t, 20.0, s.Genuine.Mean)
	assert.Equal(t, 20.0, s.Genuine.Median)
	assert.Equal(t, 10.0, s.Genuine.Min)
	assert.Equal(t, 30.0, s.Genuine.Max)
	assert.Equal(t, 100.0, s.Impostor.Mean)
	assert.Zero(t, s.Impostor.StdDev)

	empty, err := Summarize(nil)
	require.NoError(t, err)
	assert.Nil(t, empty.Genuine)
	assert.Nil(t, empty.Impostor)
}
