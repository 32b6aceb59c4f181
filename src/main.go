package main

import (
	"flag"
	"fmt"
	HEMatch "hematch"
	"hematch/configs"
	"hematch/src/pipeline"
	"hematch/src/utils"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	rootutils "hematch/utils"
)

func main() {
	cfg := configs.DefaultConfig()
	cfg.CorpusDir = filepath.Join(HEMatch.FindRootPath(), configs.DescriptorDir)

	var (
		tau   uint
		sweep string
		out   string
	)
	flag.StringVar(&cfg.CorpusDir, "corpus", cfg.CorpusDir, "directory of .npy descriptors")
	flag.UintVar(&tau, "tau", configs.DefaultThreshold, "maximum Hamming distance accepted as same subject")
	flag.IntVar(&cfg.DescriptorLength, "length", cfg.DescriptorLength, "descriptor length in bytes")
	flag.StringVar(&cfg.Delimiter, "delim", cfg.Delimiter, "separator between subject label and sample in a descriptor id")
	flag.StringVar(&cfg.ParamSet, "params", cfg.ParamSet, "BGV parameter set")
	flag.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "number of goroutines evaluating pairs")
	flag.IntVar(&cfg.Limit, "limit", 0, "only use the first n descriptors (0 = all)")
	flag.StringVar(&sweep, "sweep", "", "comma separated thresholds to also report, e.g. 40,50,57,64")
	flag.BoolVar(&cfg.Verify, "verify", false, "check every decrypted distance against the plaintext one")
	flag.BoolVar(&cfg.Debug, "debug", false, "verbose logs")
	flag.StringVar(&out, "out", "", "also write the report as JSON to this file")
	flag.Parse()

	if tau > uint(^uint32(0)) {
		rootutils.HandleError(fmt.Errorf("tau %d out of range", tau))
	}
	cfg.Threshold = uint32(tau)

	var err error
	cfg.Sweep, err = parseThresholds(sweep)
	rootutils.HandleError(err)

	logger := utils.NewLogger(cfg.Debug)
	report, err := pipeline.Run(logger, cfg)
	rootutils.HandleError(err)

	rootutils.HandleError(report.Write(os.Stdout))
	if out != "" {
		rootutils.HandleError(utils.SaveToJSON(logger, out, report))
	}
}

func parseThresholds(s string) ([]uint32, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var taus []uint32
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q in -sweep: %w", field, err)
		}
		taus = append(taus, uint32(v))
	}
	return taus, nil
}
