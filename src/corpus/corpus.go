// Package corpus loads the ORB fingerprints produced upstream and enumerates
// the pairs to be compared.
package corpus

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hematch/configs"
	"hematch/src/utils"
	"os"
	"strings"

	"github.com/sbinet/npyio"
	"golang.org/x/crypto/sha3"
)

var (
	ErrOpenDir   = errors.New("cannot enumerate descriptor directory")
	ErrMalformed = errors.New("malformed descriptor file")
	ErrLength    = errors.New("descriptor has wrong length")
)

// Descriptor is one fixed-length binary fingerprint
type Descriptor []byte

// Entry is a descriptor tagged with its id (the file stem)
type Entry struct {
	ID         string
	Descriptor Descriptor
}

// Corpus is the ordered list of entries, immutable once loaded
type Corpus struct {
	entries   []Entry
	length    int
	delimiter string
}

// Pair indexes two entries of a corpus, I < J
type Pair struct {
	I, J int
}

type LoadOptions struct {
	Length    int
	Limit     int
	Delimiter string
}

// Load reads every .npy file of dir, in directory order.
// A single unreadable or wrongly sized file fails the whole load.
func Load(dir string, opts LoadOptions) (*Corpus, error) {
	if opts.Length <= 0 {
		opts.Length = configs.DescriptorLength
	}
	if opts.Delimiter == "" {
		opts.Delimiter = configs.SubjectDelimiter
	}

	files, err := utils.ListFiles(dir, configs.DescriptorExt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenDir, err)
	}

	c := &Corpus{length: opts.Length, delimiter: opts.Delimiter}
	for _, path := range files {
		if opts.Limit > 0 && len(c.entries) == opts.Limit {
			break
		}
		desc, err := ReadDescriptor(path, opts.Length)
		if err != nil {
			return nil, err
		}
		c.entries = append(c.entries, Entry{ID: utils.FileStem(path), Descriptor: desc})
	}
	return c, nil
}

// ReadDescriptor parses a single .npy file holding a uint8 array of
// exactly length elements. Multi-dimensional arrays are read flat.
func ReadDescriptor(path string, length int) (Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}
	defer f.Close()

	r, err := npyio.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}
	if dt := strings.TrimLeft(r.Header.Descr.Type, "|<>="); dt != "u1" {
		return nil, fmt.Errorf("%w: %s: dtype %q, want uint8", ErrMalformed, path, r.Header.Descr.Type)
	}

	var data []uint8
	if err := r.Read(&data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}
	if len(data) != length {
		return nil, fmt.Errorf("%w: %s: expected %d bytes, got %d", ErrLength, path, length, len(data))
	}
	return Descriptor(data), nil
}

// New builds a corpus from in-memory entries, checking every length
func New(entries []Entry, length int, delimiter string) (*Corpus, error) {
	for _, e := range entries {
		if len(e.Descriptor) != length {
			return nil, fmt.Errorf("%w: %s: expected %d bytes, got %d", ErrLength, e.ID, length, len(e.Descriptor))
		}
	}
	if delimiter == "" {
		delimiter = configs.SubjectDelimiter
	}
	return &Corpus{entries: append([]Entry(nil), entries...), length: length, delimiter: delimiter}, nil
}

func (c *Corpus) Len() int { return len(c.entries) }

func (c *Corpus) DescriptorLength() int { return c.length }

func (c *Corpus) Entry(i int) Entry { return c.entries[i] }

func (c *Corpus) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Pairs enumerates every unordered pair exactly once, never pairing an entry with itself
func (c *Corpus) Pairs() []Pair {
	n := len(c.entries)
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j})
		}
	}
	return pairs
}

// SameSubject is the ground truth of a pair
func (c *Corpus) SameSubject(p Pair) bool {
	return SameSubject(c.entries[p.I].ID, c.entries[p.J].ID, c.delimiter)
}

// Subjects returns the number of entries per subject label
func (c *Corpus) Subjects() map[string]int {
	subjects := make(map[string]int)
	for _, e := range c.entries {
		subjects[SubjectOf(e.ID, c.delimiter)]++
	}
	return subjects
}

// Digest is the SHA3-256 of ids and descriptors in load order
func (c *Corpus) Digest() [32]byte {
	h := sha3.New256()
	var n [8]byte
	for _, e := range c.entries {
		binary.LittleEndian.PutUint64(n[:], uint64(len(e.ID)))
		h.Write(n[:])
		h.Write([]byte(e.ID))
		h.Write(e.Descriptor)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// SubjectOf returns the label before the first delimiter, or the whole id
func SubjectOf(id, delimiter string) string {
	subject, _, _ := strings.Cut(id, delimiter)
	return subject
}

func SameSubject(a, b, delimiter string) bool {
	return SubjectOf(a, delimiter) == SubjectOf(b, delimiter)
}
