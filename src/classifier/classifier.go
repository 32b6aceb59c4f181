package classifier

import (
	"errors"
	"fmt"
	"hematch/src/he"
	"sync"
)

var ErrUndefinedAccuracy = errors.New("accuracy is undefined over zero pairs")

// Decide predicts "same subject" when the distance is at most tau
func Decide(distance uint64, tau uint32) bool {
	return distance <= uint64(tau)
}

// Classify decrypts d and thresholds it. Returns the plaintext distance too
// so callers can record it.
func Classify(d *he.Scalar, dec *he.Decryptor, tau uint32) (bool, uint64, error) {
	distance, err := dec.DecryptScalar(d)
	if err != nil {
		return false, 0, fmt.Errorf("decrypting distance: %w", err)
	}
	return Decide(distance, tau), distance, nil
}

// ConfusionCounts is the 2x2 confusion matrix of a run
type ConfusionCounts struct {
	TP uint64 `json:"tp"`
	TN uint64 `json:"tn"`
	FP uint64 `json:"fp"`
	FN uint64 `json:"fn"`
}

// Record increments exactly one counter
func (c *ConfusionCounts) Record(predicted, actual bool) {
	switch {
	case predicted && actual:
		c.TP++
	case !predicted && !actual:
		c.TN++
	case predicted && !actual:
		c.FP++
	default:
		c.FN++
	}
}

func (c ConfusionCounts) Total() uint64 {
	return c.TP + c.TN + c.FP + c.FN
}

// Accuracy is (TP+TN)/total
func (c ConfusionCounts) Accuracy() (float64, error) {
	total := c.Total()
	if total == 0 {
		return 0, ErrUndefinedAccuracy
	}
	return float64(c.TP+c.TN) / float64(total), nil
}

// TPR is the share of same-subject pairs that were accepted, 0 without positives
func (c ConfusionCounts) TPR() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// FPR is the share of different-subject pairs that were accepted, 0 without negatives
func (c ConfusionCounts) FPR() float64 {
	if c.FP+c.TN == 0 {
		return 0
	}
	return float64(c.FP) / float64(c.FP+c.TN)
}

func (c ConfusionCounts) merge(o ConfusionCounts) ConfusionCounts {
	return ConfusionCounts{TP: c.TP + o.TP, TN: c.TN + o.TN, FP: c.FP + o.FP, FN: c.FN + o.FN}
}

// Outcome is the decision made for one pair
type Outcome struct {
	A         string `json:"a"`
	B         string `json:"b"`
	Distance  uint64 `json:"distance"`
	Actual    bool   `json:"actual"`
	Predicted bool   `json:"predicted"`
}

// Aggregator collects outcomes from concurrent workers. The order in which
// outcomes arrive does not change the counts.
type Aggregator struct {
	mu       sync.Mutex
	counts   ConfusionCounts
	outcomes []Outcome
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) Add(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts.Record(o.Predicted, o.Actual)
	a.outcomes = append(a.outcomes, o)
}

// Merge folds the counts and outcomes of another aggregator into a
func (a *Aggregator) Merge(other *Aggregator) {
	other.mu.Lock()
	counts, outcomes := other.counts, append([]Outcome(nil), other.outcomes...)
	other.mu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts = a.counts.merge(counts)
	a.outcomes = append(a.outcomes, outcomes...)
}

func (a *Aggregator) Counts() ConfusionCounts {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts
}

func (a *Aggregator) Outcomes() []Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Outcome(nil), a.outcomes...)
}
