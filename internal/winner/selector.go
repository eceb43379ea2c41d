package winner

import (
	"github.com/shopspring/decimal"

	"content-feedback/internal/storage"
)

// Composite score weights. Fixed design constants, not configuration.
var (
	weightConversions = decimal.NewFromInt(10)
	weightCTR         = decimal.NewFromInt(100)
)

// Score computes the composite performance score for one metric row:
// 10·conversions + 100·ctr + revenue.
func Score(metric storage.PostMetric) decimal.Decimal {
	conversions := decimal.NewFromInt(metric.Conversions)
	return weightConversions.Mul(conversions).
		Add(weightCTR.Mul(metric.CTR)).
		Add(metric.Revenue)
}

// SelectBest returns the post with the highest composite score, judged
// on each post's most recently collected metric row. Posts without
// metrics are skipped. Returns nil when no post has metrics. On a
// score tie the first post in input order wins.
func SelectBest(posts []storage.Post, metricsByPost map[int64][]storage.PostMetric) *storage.Post {
	var (
		best      *storage.Post
		bestScore decimal.Decimal
	)

	for i := range posts {
		post := posts[i]
		latest, ok := latestMetric(metricsByPost[post.ID])
		if !ok {
			continue
		}

		score := Score(latest)
		if best == nil || score.GreaterThan(bestScore) {
			best = &posts[i]
			bestScore = score
		}
	}
	return best
}

func latestMetric(metrics []storage.PostMetric) (storage.PostMetric, bool) {
	if len(metrics) == 0 {
		return storage.PostMetric{}, false
	}

	latest := metrics[0]
	for _, m := range metrics[1:] {
		if m.CollectedAt.After(latest.CollectedAt) {
			latest = m
		}
	}
	return latest, true
}
