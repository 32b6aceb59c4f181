package pipeline

import (
	"fmt"
	"hematch/src/classifier"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Report is what a run produces. Only aggregate results are exported,
// per-pair outcomes stay in memory.
type Report struct {
	RunID        uuid.UUID                   `json:"run_id"`
	CorpusDir    string                      `json:"corpus_dir"`
	CorpusDigest string                      `json:"corpus_sha3_256"`
	Descriptors  int                         `json:"descriptors"`
	Subjects     int                         `json:"subjects"`
	Pairs        int                         `json:"pairs"`
	Threshold    uint32                      `json:"threshold"`
	Counts       classifier.ConfusionCounts  `json:"counts"`
	Accuracy     float64                     `json:"accuracy"`
	Sweep        []classifier.OperatingPoint `json:"sweep,omitempty"`
	Distances    classifier.Summary          `json:"distances"`
	Verified     bool                        `json:"verified"`
	Elapsed      time.Duration               `json:"elapsed_ns"`

	outcomes []classifier.Outcome
}

// Outcomes returns the per-pair decisions of the run
func (r *Report) Outcomes() []classifier.Outcome {
	return append([]classifier.Outcome(nil), r.outcomes...)
}

// Write prints the report in a human readable form
func (r *Report) Write(w io.Writer) error {
	b := new(strings.Builder)

	fmt.Fprintf(b, "Run %s\n", r.RunID)
	fmt.Fprintf(b, "Loaded %d images (%d subjects) from %s, sha3-256 %s\n", r.Descriptors, r.Subjects, r.CorpusDir, r.CorpusDigest)
	fmt.Fprintf(b, "Pairs=%d, tau=%d", r.Pairs, r.Threshold)
	if r.Verified {
		b.WriteString(", every distance checked against the plaintext")
	}
	b.WriteString("\n\n")

	c := r.Counts
	fmt.Fprintf(b, "TP=%d, TN=%d, FP=%d, FN=%d\n", c.TP, c.TN, c.FP, c.FN)
	fmt.Fprintf(b, "Accuracy=%.3f\n\n", r.Accuracy)

	writeMatrix(b, c)

	if s := r.Distances; s.Genuine != nil || s.Impostor != nil {
		b.WriteString("\nDistances      count     min     max    mean  median  stddev\n")
		writeStats(b, "same subject", s.Genuine)
		writeStats(b, "different", s.Impostor)
	}

	if len(r.Sweep) > 0 {
		b.WriteString("\n  tau      TP      TN      FP      FN  accuracy    TPR    FPR\n")
		for _, p := range r.Sweep {
			acc, _ := p.Counts.Accuracy()
			fmt.Fprintf(b, "%5d %7d %7d %7d %7d %9.3f %6.3f %6.3f\n",
				p.Tau, p.Counts.TP, p.Counts.TN, p.Counts.FP, p.Counts.FN, acc, p.Counts.TPR(), p.Counts.FPR())
		}
		if best, err := classifier.Best(r.Sweep); err == nil {
			acc, _ := best.Counts.Accuracy()
			fmt.Fprintf(b, "Best tau=%d (accuracy %.3f)\n", best.Tau, acc)
		}
	}

	fmt.Fprintf(b, "\nTotal running time: %f (s)\n", r.Elapsed.Seconds())

	_, err := io.WriteString(w, b.String())
	return err
}

// writeMatrix lays the counts out as rows = actual class, columns = predicted
func writeMatrix(b *strings.Builder, c classifier.ConfusionCounts) {
	b.WriteString("Confusion matrix    predicted same  predicted different\n")
	fmt.Fprintf(b, "actual same         %14d  %19d\n", c.TP, c.FN)
	fmt.Fprintf(b, "actual different    %14d  %19d\n", c.FP, c.TN)
}

func writeStats(b *strings.Builder, name string, d *classifier.DistanceStats) {
	if d == nil {
		fmt.Fprintf(b, "%-12s %7d       -       -       -       -       -\n", name, 0)
		return
	}
	fmt.Fprintf(b, "%-12s %7d %7.0f %7.0f %7.2f %7.2f %7.2f\n", name, d.Count, d.Min, d.Max, d.Mean, d.Median, d.StdDev)
}
