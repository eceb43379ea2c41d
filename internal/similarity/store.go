package similarity

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrInvalidArgument indicates an empty key or text.
	ErrInvalidArgument = errors.New("similarity: invalid argument")
	// ErrNotFound indicates a missing key. Expected on Get/Delete misses.
	ErrNotFound = errors.New("similarity: key not found")
)

// Record is a stored winner: text plus its embedding and open-ended metadata.
type Record struct {
	Key       string
	Text      string
	Embedding []float64
	Metadata  map[string]string
	StoredAt  time.Time
}

// SearchResult pairs a record with its similarity to a query.
type SearchResult struct {
	Key   string
	Score float64
	Record
}

// Stats summarises store contents by scanning winner keys.
type Stats struct {
	TotalItems        int
	BrandsWithWinners int
	PerBrandCounts    map[int64]int
}

// Store is an in-memory content-addressed map with nearest-neighbour
// search over hashed text embeddings. It is the system of record only
// until restart; the nightly winner job rebuilds it from persistence.
type Store struct {
	mu      sync.RWMutex
	dims    int
	records map[string]*Record
	order   []string
}

// NewStore constructs an empty store with the given embedding length.
func NewStore(dims int) *Store {
	if dims <= 0 {
		dims = DefaultEmbeddingDims
	}
	return &Store{
		dims:    dims,
		records: make(map[string]*Record),
	}
}

// Add embeds text and upserts the record. Re-adding an existing key
// replaces the record in place and keeps its insertion-order slot.
func (s *Store) Add(key, text string, metadata map[string]string) error {
	if key == "" || text == "" {
		return fmt.Errorf("%w: key and text must be non-empty", ErrInvalidArgument)
	}

	rec := &Record{
		Key:       key,
		Text:      text,
		Embedding: Embed(text, s.dims),
		Metadata:  metadata,
		StoredAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[key]; !exists {
		s.order = append(s.order, key)
	}
	s.records[key] = rec
	return nil
}

// Get returns the record stored under key.
func (s *Store) Get(key string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	if !ok {
		return Record{}, ErrNotFound
	}
	return *rec, nil
}

// Delete removes the record stored under key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key]; !ok {
		return ErrNotFound
	}
	delete(s.records, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Search ranks all records by cosine similarity to the query text,
// descending. Ties keep insertion order. An empty store yields an
// empty slice, not an error.
func (s *Store) Search(queryText string, limit int) []SearchResult {
	query := Embed(queryText, s.dims)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]SearchResult, 0, len(s.order))
	for _, key := range s.order {
		rec := s.records[key]
		results = append(results, SearchResult{
			Key:    key,
			Score:  Cosine(query, rec.Embedding),
			Record: *rec,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// BrandWinners returns every record under the brand's winner prefix,
// in insertion order.
func (s *Store) BrandWinners(brandID int64) []Record {
	prefix := winnerKeyPrefix(brandID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	winners := make([]Record, 0)
	for _, key := range s.order {
		if strings.HasPrefix(key, prefix) {
			winners = append(winners, *s.records[key])
		}
	}
	return winners
}

// Stats derives store statistics by parsing the brand segment of
// each winner key.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		TotalItems:     len(s.records),
		PerBrandCounts: make(map[int64]int),
	}
	for key := range s.records {
		if brandID, ok := parseWinnerBrand(key); ok {
			stats.PerBrandCounts[brandID]++
		}
	}
	stats.BrandsWithWinners = len(stats.PerBrandCounts)
	return stats
}

// WinnerKey builds the stable key for a brand's winner slot.
func WinnerKey(brandID, postID int64) string {
	return fmt.Sprintf("brand:%d:winner:%d", brandID, postID)
}

func winnerKeyPrefix(brandID int64) string {
	return fmt.Sprintf("brand:%d:winner:", brandID)
}

func parseWinnerBrand(key string) (int64, bool) {
	parts := strings.Split(key, ":")
	if len(parts) < 3 || parts[0] != "brand" || parts[2] != "winner" {
		return 0, false
	}
	brandID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return brandID, true
}
