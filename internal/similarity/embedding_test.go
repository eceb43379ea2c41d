package similarity

import (
	"reflect"
	"testing"
)

func TestEmbedDeterministic(t *testing.T) {
	a := Embed("Summer sale: 20% off all sneakers!", 64)
	b := Embed("Summer sale: 20% off all sneakers!", 64)

	if len(a) != 64 {
		t.Fatalf("expected 64 dims, got %d", len(a))
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same text must yield a bit-identical vector")
	}
}

func TestEmbedCaseAndPunctuationInsensitive(t *testing.T) {
	a := Embed("Summer SALE", 64)
	b := Embed("summer, sale!", 64)

	if !reflect.DeepEqual(a, b) {
		t.Fatal("tokenization should normalise case and strip punctuation")
	}
}

func TestEmbedEmptyText(t *testing.T) {
	vec := Embed("", 32)
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("empty text should embed to zero vector, dim %d = %f", i, v)
		}
	}
}

func TestCosineIdentical(t *testing.T) {
	vec := Embed("fresh roast coffee beans", 64)
	if got := Cosine(vec, vec); got != 1.0 {
		t.Fatalf("identical vectors must score exactly 1.0, got %v", got)
	}
}

func TestCosineZeroNorm(t *testing.T) {
	zero := make([]float64, 64)
	vec := Embed("anything", 64)
	if got := Cosine(zero, vec); got != 0 {
		t.Fatalf("zero-norm vector must score 0, got %v", got)
	}
}

func TestCosineRange(t *testing.T) {
	a := Embed("luxury watch collection for the discerning buyer", 64)
	b := Embed("discount sneakers flash sale today", 64)

	got := Cosine(a, b)
	if got < 0 || got > 1 {
		t.Fatalf("cosine must stay in [0,1], got %v", got)
	}
}

func TestCosineLengthMismatch(t *testing.T) {
	if got := Cosine(make([]float64, 8), make([]float64, 16)); got != 0 {
		t.Fatalf("mismatched lengths must score 0, got %v", got)
	}
}
