package embed

import "context"

// Embedder converts free text into a fixed-length numeric vector.
// Local implementations may require a preparation phase over the corpus;
// remote implementations prepare lazily on first use.
type Embedder interface {
	// Name returns the provider name
	Name() string

	// Prepare builds any corpus-derived state (vocabulary, IDF values).
	// Remote embedders treat this as a no-op.
	Prepare(corpus []string) error

	// Dimension returns the vector length, or 0 if not yet known
	Dimension() int

	// Embed returns the vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)
}
