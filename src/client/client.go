package client

import (
	"fmt"
	"hematch/src/corpus"
	"hematch/src/he"
	"hematch/src/utils"
	"sync"
	"time"
)

// Client owns the descriptors and encrypts them under the public key
// before anything leaves its hands
type Client struct {
	logger    utils.Logger
	encryptor *he.Encryptor
}

func NewClient(logger utils.Logger, pk *he.PublicKey) *Client {
	return &Client{logger: logger, encryptor: he.NewEncryptor(pk)}
}

// Encryptor returns a copy that can be used from another goroutine
func (c *Client) Encryptor() *he.Encryptor {
	return c.encryptor.ShallowCopy()
}

// EncryptCorpus encrypts every descriptor once, the i-th vector belongs to
// the i-th corpus entry. Encryption is spread over workers goroutines.
func (c *Client) EncryptCorpus(cp *corpus.Corpus, workers int) ([]*he.Vector, error) {
	c.logger.PrintHeader("[Client] Encrypting the descriptors")
	t := time.Now()

	if workers < 1 {
		workers = 1
	}
	vectors := make([]*he.Vector, cp.Len())
	errs := make([]error, cp.Len())

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(enc *he.Encryptor) {
			defer wg.Done()
			for i := range jobs {
				vectors[i], errs[i] = enc.EncryptVector(cp.Entry(i).Descriptor)
			}
		}(c.encryptor.ShallowCopy())
	}
	for i := 0; i < cp.Len(); i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("encrypting %s: %w", cp.Entry(i).ID, err)
		}
	}

	c.logger.PrintRunningTime(fmt.Sprintf("[Client] Encrypt %d descriptors", cp.Len()), t)
	if len(vectors) > 0 {
		if size, err := utils.SerializedSize(vectors[0]); err == nil {
			c.logger.PrintFormatted("Ciphertext size: %d bytes per descriptor", size)
		}
	}
	return vectors, nil
}
