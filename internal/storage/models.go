package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Post variants. Primary is the baseline copy; A and B are test variants.
const (
	VariantPrimary = "primary"
	VariantA       = "A"
	VariantB       = "B"
)

// Brand owns posts and receives at most one winner slot per post.
type Brand struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Post is a piece of marketing copy owned by a brand.
type Post struct {
	ID        int64
	BrandID   int64
	Variant   string
	Content   string
	CreatedAt time.Time
}

// PostMetric is an append-only performance observation for a post.
type PostMetric struct {
	ID          int64
	PostID      int64
	Platform    string
	Impressions int64
	Clicks      int64
	CTR         decimal.Decimal
	Conversions int64
	Revenue     decimal.Decimal
	CollectedAt time.Time
}
