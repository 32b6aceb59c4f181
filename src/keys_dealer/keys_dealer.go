/// The keys dealer generates the BGV key material of a run: the private key
/// kept by the decrypting party, the public key handed to the encrypting party
/// and the evaluation keys handed to the comparing party.

package keys_dealer

import (
	"fmt"
	"hematch/src/he"
	"hematch/src/utils"
	"time"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// KeyMaterial is the output of one key generation event
type KeyMaterial struct {
	Private    *he.PrivateKey
	Public     *he.PublicKey
	Evaluation *he.EvaluationKey
}

// Generate produces fresh keys for ctx. Keys are never persisted, a new run
// always starts with a new generation.
func Generate(logger utils.Logger, ctx *he.Context) (*KeyMaterial, error) {
	logger.PrintHeader("[Keys Dealer] Generating the BGV key material")
	params := ctx.Parameters()
	logger.PrintFormatted("LogN = %d, LogQP = %v, T = %d", params.LogN(), params.LogQP(), params.PlaintextModulus())
	logger.PrintFormatted("Descriptor length = %d bytes, slots used = %d / %d", ctx.Length(), ctx.UsedSlots(), params.MaxSlots())

	kgen := rlwe.NewKeyGenerator(params)

	t := time.Now()
	sk, pk := kgen.GenKeyPairNew()
	logger.PrintRunningTime("[Keys Dealer] Key pair", t)

	t = time.Now()
	rlk := kgen.GenRelinearizationKeyNew(sk)
	logger.PrintRunningTime("[Keys Dealer] Relinearization key", t)

	galEls := GaloisElements(ctx)
	logger.PrintSummarizedVector("Galois elements", galEls, len(galEls))
	t = time.Now()
	gks := kgen.GenGaloisKeysNew(galEls, sk)
	logger.PrintRunningTime("[Keys Dealer] Galois keys", t)
	logger.PrintMemUsage("Keys Dealer")

	priv, pub, evk, err := he.BindKeys(ctx, sk, pk, rlwe.NewMemEvaluationKeySet(rlk, gks...))
	if err != nil {
		return nil, fmt.Errorf("binding key material: %w", err)
	}
	logger.PrintFormatted("Key generation: %s", pub.Generation())
	return &KeyMaterial{Private: priv, Public: pub, Evaluation: evk}, nil
}

// GaloisElements returns the sorted, duplicate free Galois elements the
// distance circuit needs
func GaloisElements(ctx *he.Context) []uint64 {
	set := make(map[uint64]struct{})
	for _, galEl := range he.GaloisElements(ctx) {
		set[galEl] = struct{}{}
	}
	galEls := maps.Keys(set)
	slices.Sort(galEls)
	return galEls
}
