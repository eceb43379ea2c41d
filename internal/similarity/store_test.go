package similarity

import (
	"errors"
	"testing"
)

func TestAddRejectsEmptyKeyOrText(t *testing.T) {
	store := NewStore(64)

	if err := store.Add("", "text", nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty key should be invalid, got %v", err)
	}
	if err := store.Add("key", "", nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty text should be invalid, got %v", err)
	}
}

func TestAddGetRoundTrip(t *testing.T) {
	store := NewStore(64)
	metadata := map[string]string{"brandID": "7", "variant": "A"}

	if err := store.Add("brand:7:winner:42", "big summer savings", metadata); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	rec, err := store.Get("brand:7:winner:42")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec.Text != "big summer savings" {
		t.Fatalf("text mismatch: %q", rec.Text)
	}
	if rec.Metadata["brandID"] != "7" || rec.Metadata["variant"] != "A" {
		t.Fatalf("metadata mismatch: %#v", rec.Metadata)
	}
	if len(rec.Embedding) != 64 {
		t.Fatalf("expected 64-dim embedding, got %d", len(rec.Embedding))
	}
}

func TestReAddOverwrites(t *testing.T) {
	store := NewStore(64)

	if err := store.Add("brand:1:winner:10", "original copy", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Add("brand:1:winner:10", "revised copy", nil); err != nil {
		t.Fatalf("re-add failed: %v", err)
	}

	if stats := store.Stats(); stats.TotalItems != 1 {
		t.Fatalf("re-add must replace, not duplicate: %d items", stats.TotalItems)
	}
	rec, err := store.Get("brand:1:winner:10")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec.Text != "revised copy" {
		t.Fatalf("expected overwritten text, got %q", rec.Text)
	}
}

func TestGetDeleteNotFound(t *testing.T) {
	store := NewStore(64)

	if _, err := store.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesFromSearch(t *testing.T) {
	store := NewStore(64)
	if err := store.Add("brand:1:winner:1", "weekend flash sale", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Delete("brand:1:winner:1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if results := store.Search("weekend flash sale", 10); len(results) != 0 {
		t.Fatalf("deleted record still searchable: %d results", len(results))
	}
}

func TestSearchIdenticalTextScoresOne(t *testing.T) {
	store := NewStore(64)
	if err := store.Add("brand:3:winner:9", "limited edition drop this friday", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	results := store.Search("limited edition drop this friday", 5)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Score != 1.0 {
		t.Fatalf("identical text must score 1.0, got %v", results[0].Score)
	}
}

func TestSearchOrderingAndLimit(t *testing.T) {
	store := NewStore(64)
	texts := map[string]string{
		"brand:1:winner:1": "organic cold brew coffee subscription",
		"brand:2:winner:2": "cold brew coffee on sale now",
		"brand:3:winner:3": "premium yoga mats for studios",
	}
	for _, key := range []string{"brand:1:winner:1", "brand:2:winner:2", "brand:3:winner:3"} {
		if err := store.Add(key, texts[key], nil); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	results := store.Search("cold brew coffee", 2)
	if len(results) != 2 {
		t.Fatalf("limit not applied: %d results", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("results not sorted descending at %d", i)
		}
	}
	for _, res := range results {
		if res.Score < 0 || res.Score > 1 {
			t.Fatalf("score out of range: %v", res.Score)
		}
	}
}

func TestSearchEmptyStore(t *testing.T) {
	store := NewStore(64)
	if results := store.Search("anything", 10); len(results) != 0 {
		t.Fatalf("empty store should return empty slice, got %d", len(results))
	}
}

func TestBrandWinnersInsertionOrder(t *testing.T) {
	store := NewStore(64)
	if err := store.Add(WinnerKey(5, 100), "first winner", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Add(WinnerKey(6, 200), "other brand", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Add(WinnerKey(5, 300), "second winner", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	winners := store.BrandWinners(5)
	if len(winners) != 2 {
		t.Fatalf("expected 2 winners for brand 5, got %d", len(winners))
	}
	if winners[0].Text != "first winner" || winners[1].Text != "second winner" {
		t.Fatalf("winners out of insertion order: %q, %q", winners[0].Text, winners[1].Text)
	}
}

func TestStatsPerBrand(t *testing.T) {
	store := NewStore(64)
	if err := store.Add(WinnerKey(1, 10), "a", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Add(WinnerKey(1, 11), "b", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Add(WinnerKey(2, 20), "c", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Add("unrelated:key", "d", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	stats := store.Stats()
	if stats.TotalItems != 4 {
		t.Fatalf("total items: %d", stats.TotalItems)
	}
	if stats.BrandsWithWinners != 2 {
		t.Fatalf("brands with winners: %d", stats.BrandsWithWinners)
	}
	if stats.PerBrandCounts[1] != 2 || stats.PerBrandCounts[2] != 1 {
		t.Fatalf("per-brand counts: %#v", stats.PerBrandCounts)
	}
}
