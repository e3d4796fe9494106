package tfidf

import (
	"context"
	"math"
	"testing"
)

func TestEmbedder_PrepareAndEmbed(t *testing.T) {
	e := NewEmbedder()
	corpus := []string{
		"the cat sat on the mat",
		"a dog barked at the cat",
		"quarterly revenue numbers exceeded projections",
	}

	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if e.Dimension() == 0 {
		t.Fatal("expected non-zero dimension after prepare")
	}

	vec, err := e.Embed(context.Background(), "the cat sat on the mat")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != e.Dimension() {
		t.Errorf("expected vector length %d, got %d", e.Dimension(), len(vec))
	}

	// Vectors are L2-normalized
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-6 {
		t.Errorf("expected unit norm, got %f", math.Sqrt(norm))
	}
}

func TestEmbedder_UnpreparedFails(t *testing.T) {
	e := NewEmbedder()
	if _, err := e.Embed(context.Background(), "anything"); err == nil {
		t.Error("expected error before prepare")
	}
}

func TestEmbedder_EmptyCorpusFails(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare(nil); err == nil {
		t.Error("expected error for empty corpus")
	}
}

func TestEmbedder_UnknownWordsZeroVector(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare([]string{"cat dog mouse"}); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	vec, err := e.Embed(context.Background(), "zebra giraffe")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	for i, v := range vec {
		if v != 0 {
			t.Errorf("expected zero vector for out-of-vocabulary text, got %f at %d", v, i)
		}
	}
}

func TestEmbedder_SimilarTextsAlign(t *testing.T) {
	e := NewEmbedder()
	corpus := []string{
		"the cat sat on the mat near the window",
		"a dog barked loudly outside the house",
		"quarterly revenue numbers exceeded projections",
	}
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	ctx := context.Background()
	query, _ := e.Embed(ctx, "cat mat window")
	cat, _ := e.Embed(ctx, corpus[0])
	finance, _ := e.Embed(ctx, corpus[2])

	if dot(query, cat) <= dot(query, finance) {
		t.Errorf("expected cat text to align with cat query: %f vs %f",
			dot(query, cat), dot(query, finance))
	}
}

func dot(a, b []float32) float64 {
	sum := 0.0
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
