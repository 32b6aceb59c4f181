package classifier

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"golang.org/x/exp/slices"
)

// OperatingPoint is the confusion matrix obtained for one threshold
type OperatingPoint struct {
	Tau    uint32          `json:"tau"`
	Counts ConfusionCounts `json:"counts"`
}

// Sweep re-thresholds already decrypted distances, one point per tau in
// increasing tau order. Duplicated taus are evaluated once.
func Sweep(outcomes []Outcome, taus []uint32) []OperatingPoint {
	sorted := slices.Clone(taus)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	points := make([]OperatingPoint, 0, len(sorted))
	for _, tau := range sorted {
		var c ConfusionCounts
		for _, o := range outcomes {
			c.Record(Decide(o.Distance, tau), o.Actual)
		}
		points = append(points, OperatingPoint{Tau: tau, Counts: c})
	}
	return points
}

// Best returns the point of highest accuracy, the lowest tau on ties
func Best(points []OperatingPoint) (OperatingPoint, error) {
	var best OperatingPoint
	bestAcc := -1.0
	for _, p := range points {
		acc, err := p.Counts.Accuracy()
		if err != nil {
			return OperatingPoint{}, err
		}
		if acc > bestAcc {
			best, bestAcc = p, acc
		}
	}
	if bestAcc < 0 {
		return OperatingPoint{}, ErrUndefinedAccuracy
	}
	return best, nil
}

// DistanceStats describes one population of distances
type DistanceStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
}

// Summary splits distances into genuine (same subject) and impostor pairs
type Summary struct {
	Genuine  *DistanceStats `json:"genuine,omitempty"`
	Impostor *DistanceStats `json:"impostor,omitempty"`
}

// Summarize computes the statistics of genuine and impostor distances.
// A population without any pair is left nil.
func Summarize(outcomes []Outcome) (Summary, error) {
	var genuine, impostor stats.Float64Data
	for _, o := range outcomes {
		if o.Actual {
			genuine = append(genuine, float64(o.Distance))
		} else {
			impostor = append(impostor, float64(o.Distance))
		}
	}

	var s Summary
	var err error
	if s.Genuine, err = describe(genuine); err != nil {
		return Summary{}, fmt.Errorf("genuine distances: %w", err)
	}
	if s.Impostor, err = describe(impostor); err != nil {
		return Summary{}, fmt.Errorf("impostor distances: %w", err)
	}
	return s, nil
}

func describe(data stats.Float64Data) (*DistanceStats, error) {
	if data.Len() == 0 {
		return nil, nil
	}
	d := &DistanceStats{Count: data.Len()}
	var err error
	if d.Min, err = data.Min(); err != nil {
		return nil, err
	}
	if d.Max, err = data.Max(); err != nil {
		return nil, err
	}
	if d.Mean, err = data.Mean(); err != nil {
		return nil, err
	}
	if d.Median, err = data.Median(); err != nil {
		return nil, err
	}
	if d.StdDev, err = data.StandardDeviation(); err != nil {
		return nil, err
	}
	return d, nil
}
