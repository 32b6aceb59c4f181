// Package pipeline runs the full matching experiment: every unordered pair of
// the corpus is compared under encryption and the decisions are aggregated.
package pipeline

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hematch/configs"
	"hematch/src/classifier"
	"hematch/src/client"
	"hematch/src/corpus"
	"hematch/src/he"
	"hematch/src/keys_dealer"
	"hematch/src/server"
	"hematch/src/utils"
	"sync"
	"sync/atomic"
	"time"

	rootutils "hematch/utils"

	"github.com/google/uuid"
)

var ErrVerification = errors.New("encrypted distance differs from the plaintext distance")

// Run executes one experiment. Any error aborts the whole run, partial
// counts are never returned.
func Run(logger utils.Logger, cfg configs.Config) (*Report, error) {
	start := time.Now()
	runID := uuid.New()
	logger.PrintHeader(fmt.Sprintf("Encrypted descriptor matching, run %s", runID))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lit, err := configs.Literal(cfg.ParamSet)
	if err != nil {
		return nil, err
	}
	ctx, err := he.NewContext(lit, cfg.DescriptorLength)
	if err != nil {
		return nil, fmt.Errorf("HE context: %w", err)
	}

	logger.PrintHeader("[Loader] Reading the descriptors")
	t := time.Now()
	cp, err := corpus.Load(cfg.CorpusDir, corpus.LoadOptions{
		Length:    cfg.DescriptorLength,
		Limit:     cfg.Limit,
		Delimiter: cfg.Delimiter,
	})
	if err != nil {
		return nil, err
	}
	logger.PrintRunningTime("[Loader] Load", t)
	logger.PrintFormatted("Loaded %d images from %s", cp.Len(), cfg.CorpusDir)
	if logger.IsDebug() {
		for i := 0; i < min(cp.Len(), 3); i++ {
			e := cp.Entry(i)
			logger.PrintFormatted("%s: %s (%d bits set)", e.ID, rootutils.BytesToHex(e.Descriptor), rootutils.HammingWeightBytes(e.Descriptor))
		}
	}

	pairs := cp.Pairs()
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: %d descriptors in %s", classifier.ErrUndefinedAccuracy, cp.Len(), cfg.CorpusDir)
	}

	km, err := keys_dealer.Generate(logger, ctx)
	if err != nil {
		return nil, err
	}

	cl := client.NewClient(logger, km.Public)
	vectors, err := cl.EncryptCorpus(cp, cfg.Workers)
	if err != nil {
		return nil, err
	}

	logger.PrintHeader(fmt.Sprintf("[Server] Evaluating %d pairs on %d workers", len(pairs), cfg.Workers))
	t = time.Now()
	agg, err := evaluatePairs(logger, cfg, cp, pairs, vectors, cl, server.NewEvaluator(km.Evaluation), he.NewDecryptor(km.Private))
	if err != nil {
		return nil, err
	}
	logger.PrintMessage("[Server] All pairs evaluated")
	logger.PrintRunningTime("[Server] Evaluation", t)
	logger.PrintMemUsage("Evaluation")

	counts := agg.Counts()
	accuracy, err := counts.Accuracy()
	if err != nil {
		return nil, err
	}
	outcomes := agg.Outcomes()
	summary, err := classifier.Summarize(outcomes)
	if err != nil {
		return nil, err
	}
	digest := cp.Digest()

	report := &Report{
		RunID:        runID,
		CorpusDir:    cfg.CorpusDir,
		CorpusDigest: hex.EncodeToString(digest[:]),
		Descriptors:  cp.Len(),
		Subjects:     len(cp.Subjects()),
		Pairs:        len(pairs),
		Threshold:    cfg.Threshold,
		Counts:       counts,
		Accuracy:     accuracy,
		Distances:    summary,
		Verified:     cfg.Verify,
		Elapsed:      time.Since(start),
		outcomes:     outcomes,
	}
	if len(cfg.Sweep) > 0 {
		report.Sweep = classifier.Sweep(outcomes, cfg.Sweep)
	}
	return report, nil
}

// evaluatePairs distributes the pairs over cfg.Workers goroutines. Each one
// owns a shallow copy of the evaluator and of the encryptor, the decryptor
// and the aggregator are shared.
func evaluatePairs(
	logger utils.Logger,
	cfg configs.Config,
	cp *corpus.Corpus,
	pairs []corpus.Pair,
	vectors []*he.Vector,
	cl *client.Client,
	evaluator *server.Evaluator,
	dec *he.Decryptor,
) (*classifier.Aggregator, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		firstErr error
		errOnce  sync.Once
		done     atomic.Int64
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	agg := classifier.NewAggregator()
	tasks := make(chan corpus.Pair)
	workers := &sync.WaitGroup{}
	workers.Add(cfg.Workers)

	for w := 0; w < cfg.Workers; w++ {
		go func(eval *server.Evaluator, enc *he.Encryptor) {
			defer workers.Done()
			for task := range tasks {
				if ctx.Err() != nil {
					continue
				}
				t := time.Now()
				a, b := cp.Entry(task.I), cp.Entry(task.J)

				d, err := eval.Distance(vectors[task.I], vectors[task.J], enc)
				if err != nil {
					fail(fmt.Errorf("pair (%s, %s): %w", a.ID, b.ID, err))
					continue
				}
				predicted, distance, err := classifier.Classify(d, dec, cfg.Threshold)
				if err != nil {
					fail(fmt.Errorf("pair (%s, %s): %w", a.ID, b.ID, err))
					continue
				}
				if cfg.Verify {
					if want := rootutils.HammingDistance(a.Descriptor, b.Descriptor); uint64(want) != distance {
						fail(fmt.Errorf("%w: pair (%s, %s) decrypted %d, want %d", ErrVerification, a.ID, b.ID, distance, want))
						continue
					}
				}

				agg.Add(classifier.Outcome{
					A:         a.ID,
					B:         b.ID,
					Distance:  distance,
					Actual:    cp.SameSubject(task),
					Predicted: predicted,
				})
				n := done.Add(1)
				logger.PrintFormatted("Iteration i=%d, j=%d (%d/%d): %f (s)", task.I, task.J, n, len(pairs), time.Since(t).Seconds())
			}
		}(evaluator.ShallowCopy(), cl.Encryptor())
	}

feed:
	for _, p := range pairs {
		select {
		case tasks <- p:
		case <-ctx.Done():
			break feed
		}
	}
	close(tasks)
	workers.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return agg, nil
}
