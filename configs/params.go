package configs

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

// ParamSetDefault names the only security parameter set supported for now
const ParamSetDefault = "default"

// ParameterSets maps a security parameter name to its BGV literal.
//
// The default set is LogN=13 with logQP=166 (128-bit security) and the
// Fermat prime 65537 as plaintext modulus, which is 1 mod 2N so every slot
// is usable and leaves room for distances far above 8*DescriptorLength.
var ParameterSets = map[string]bgv.ParametersLiteral{
	ParamSetDefault: {
		LogN:             13,
		LogQ:             []int{55, 55},
		LogP:             []int{56},
		PlaintextModulus: 0x10001,
	},
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Config gathers everything a matching run needs
type Config struct {
	CorpusDir        string
	DescriptorLength int
	Threshold        uint32
	Delimiter        string
	ParamSet         string
	Workers          int
	Limit            int
	Sweep            []uint32
	Verify           bool
	Debug            bool
}

// DefaultConfig returns the configuration of the reference experiment
func DefaultConfig() Config {
	return Config{
		CorpusDir:        DescriptorDir,
		DescriptorLength: DescriptorLength,
		Threshold:        DefaultThreshold,
		Delimiter:        SubjectDelimiter,
		ParamSet:         ParamSetDefault,
		Workers:          runtime.NumCPU(),
	}
}

// Validate checks the fields that do not depend on the HE parameters.
// The accumulator range is checked when the HE context is built.
func (c Config) Validate() error {
	if c.CorpusDir == "" {
		return fmt.Errorf("%w: empty corpus directory", ErrInvalidConfig)
	}
	if c.DescriptorLength <= 0 {
		return fmt.Errorf("%w: descriptor length must be positive, got %d", ErrInvalidConfig, c.DescriptorLength)
	}
	if c.Delimiter == "" {
		return fmt.Errorf("%w: empty subject delimiter", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: need at least one worker, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Limit < 0 {
		return fmt.Errorf("%w: negative corpus limit %d", ErrInvalidConfig, c.Limit)
	}
	if _, err := Literal(c.ParamSet); err != nil {
		return err
	}
	return nil
}

// Literal returns the BGV parameters registered under name
func Literal(name string) (bgv.ParametersLiteral, error) {
	lit, ok := ParameterSets[name]
	if !ok {
		return bgv.ParametersLiteral{}, fmt.Errorf("%w: unknown parameter set %q (known: %s)",
			ErrInvalidConfig, name, strings.Join(knownSets(), ", "))
	}
	return lit, nil
}

func knownSets() []string {
	names := make([]string, 0, len(ParameterSets))
	for name := range ParameterSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
