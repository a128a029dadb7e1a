// Package usage - Document corpus sizing
package usage

import (
	"math"

	"github.com/shopspring/decimal"

	"rag-cost/core/types"
	"rag-cost/internal/errors"
)

const (
	// DefaultWordsPerPage approximates a PDF page
	DefaultWordsPerPage = 500

	// DefaultWordsPerChunk is the chunk size used for embedding
	DefaultWordsPerChunk = 350

	// DefaultDimensions is the embedding width
	DefaultDimensions = 768

	// DimensionsPerDSU is the vector width that counts as one DSU
	DimensionsPerDSU = 768
)

// Corpus describes a document collection to be embedded.
// Zero fields take the defaults above.
type Corpus struct {
	// Pages is the number of document pages
	Pages int `json:"pages" yaml:"pages"`

	// WordsPerPage is the average page length
	WordsPerPage int `json:"words_per_page,omitempty" yaml:"words_per_page,omitempty"`

	// WordsPerChunk is the chunk length, one vector per chunk
	WordsPerChunk int `json:"words_per_chunk,omitempty" yaml:"words_per_chunk,omitempty"`

	// Dimensions is the vector width
	Dimensions int `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// Sizing is the derived size of a corpus
type Sizing struct {
	Pages   int             `json:"pages"`
	Words   int64           `json:"words"`
	Chunks  int64           `json:"chunks"`
	Vectors int64           `json:"vectors"`
	DSU     decimal.Decimal `json:"dsu"`
}

// WithDefaults fills zero fields and records each default in tracker.
// tracker may be nil.
func (c Corpus) WithDefaults(tracker *AssumptionTracker) Corpus {
	if c.WordsPerPage == 0 {
		c.WordsPerPage = DefaultWordsPerPage
		tracker.RecordDefault("corpus", "words_per_page", DefaultWordsPerPage, "words")
	}
	if c.WordsPerChunk == 0 {
		c.WordsPerChunk = DefaultWordsPerChunk
		tracker.RecordDefault("corpus", "words_per_chunk", DefaultWordsPerChunk, "words")
	}
	if c.Dimensions == 0 {
		c.Dimensions = DefaultDimensions
		tracker.RecordDefault("corpus", "dimensions", DefaultDimensions, "")
	}
	return c
}

// Validate checks the corpus after defaults are applied
func (c Corpus) Validate() error {
	switch {
	case c.Pages < 0:
		return errors.InvalidProfile("pages must be >= 0, got %d", c.Pages)
	case c.WordsPerPage <= 0:
		return errors.InvalidProfile("words per page must be > 0, got %d", c.WordsPerPage)
	case c.WordsPerChunk <= 0:
		return errors.InvalidProfile("words per chunk must be > 0, got %d", c.WordsPerChunk)
	case c.Dimensions <= 0:
		return errors.InvalidProfile("dimensions must be > 0, got %d", c.Dimensions)
	case c.Pages > 0 && int64(c.WordsPerPage) > (math.MaxInt64-int64(c.WordsPerChunk))/int64(c.Pages):
		return errors.InvalidProfile("corpus of %d pages x %d words is too large", c.Pages, c.WordsPerPage)
	}
	return nil
}

// Size derives chunks, vectors and DSU. Every started chunk counts.
func (c Corpus) Size() (Sizing, error) {
	c = c.WithDefaults(nil)
	if err := c.Validate(); err != nil {
		return Sizing{}, err
	}

	words := int64(c.Pages) * int64(c.WordsPerPage)
	chunkSize := int64(c.WordsPerChunk)
	chunks := (words + chunkSize - 1) / chunkSize

	dsu := decimal.NewFromInt(chunks).
		Mul(decimal.NewFromInt(int64(c.Dimensions))).
		Div(decimal.NewFromInt(DimensionsPerDSU))

	return Sizing{
		Pages:   c.Pages,
		Words:   words,
		Chunks:  chunks,
		Vectors: chunks,
		DSU:     dsu,
	}, nil
}

// Profile returns the DSU-days of storing the corpus for a month.
// Pair it with a vector entry quoted per million DSU-year.
func (c Corpus) Profile() (types.UsageProfile, error) {
	size, err := c.Size()
	if err != nil {
		return types.UsageProfile{}, err
	}
	return StoredDSU(size.DSU.InexactFloat64())
}
