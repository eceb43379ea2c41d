package feedback

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"content-feedback/internal/similarity"
	"content-feedback/internal/storage"
	"content-feedback/internal/winner"
)

// Service orchestrates metric ingestion, winner selection, and the
// similarity store. Every call re-reads brand/post state from the
// persistence collaborator; nothing is cached across calls, so the
// scheduler loop and ad-hoc RunNow invocations can interleave freely.
type Service struct {
	brands  storage.BrandStore
	posts   storage.PostStore
	metrics storage.MetricStore
	store   *similarity.Store
	logger  zerolog.Logger
}

// JobStats summarises one nightly winner run.
type JobStats struct {
	BrandsProcessed   int
	WinnersIdentified int
	Errors            int
}

// VariantTrend aggregates one variant's performance over a window.
type VariantTrend struct {
	Variant           string          `json:"variant"`
	Posts             int             `json:"posts"`
	Impressions       int64           `json:"impressions"`
	Clicks            int64           `json:"clicks"`
	Conversions       int64           `json:"conversions"`
	Revenue           decimal.Decimal `json:"revenue"`
	AvgCTR            decimal.Decimal `json:"avgCtr"`
	AvgConversionRate decimal.Decimal `json:"avgConversionRate"`
	AvgRevenuePerPost decimal.Decimal `json:"avgRevenuePerPost"`
}

// TrendReport is the per-variant analysis for a brand.
type TrendReport struct {
	BrandID    int64          `json:"brandId"`
	WindowDays int            `json:"windowDays"`
	NoData     bool           `json:"noData"`
	Variants   []VariantTrend `json:"variants"`
	TopVariant string         `json:"topVariant"`
}

// New constructs the feedback service.
func New(brands storage.BrandStore, posts storage.PostStore, metrics storage.MetricStore, store *similarity.Store, logger zerolog.Logger) *Service {
	return &Service{
		brands:  brands,
		posts:   posts,
		metrics: metrics,
		store:   store,
		logger:  logger.With().Str("component", "feedback").Logger(),
	}
}

// IngestMetric validates raw counts, derives CTR, and appends a metric
// row stamped with the current time. CTR is clicks/impressions, or zero
// when there were no impressions. Persistence failures come back wrapped
// in ErrTransient; nothing is written in that case.
func (s *Service) IngestMetric(ctx context.Context, postID int64, platform string, impressions, clicks, conversions int64, revenue decimal.Decimal) (storage.PostMetric, error) {
	if postID <= 0 {
		return storage.PostMetric{}, fmt.Errorf("%w: post id must be positive", ErrInvalidArgument)
	}
	if platform == "" {
		return storage.PostMetric{}, fmt.Errorf("%w: platform must be non-empty", ErrInvalidArgument)
	}
	if impressions < 0 || clicks < 0 || conversions < 0 {
		return storage.PostMetric{}, fmt.Errorf("%w: counts must be non-negative", ErrInvalidArgument)
	}
	if revenue.IsNegative() {
		return storage.PostMetric{}, fmt.Errorf("%w: revenue must be non-negative", ErrInvalidArgument)
	}
	if impressions > 0 && clicks > impressions {
		return storage.PostMetric{}, fmt.Errorf("%w: clicks cannot exceed impressions", ErrInvalidArgument)
	}

	ctr := decimal.Zero
	if impressions > 0 {
		ctr = decimal.NewFromInt(clicks).Div(decimal.NewFromInt(impressions))
	}

	metric := storage.PostMetric{
		PostID:      postID,
		Platform:    platform,
		Impressions: impressions,
		Clicks:      clicks,
		CTR:         ctr,
		Conversions: conversions,
		Revenue:     revenue,
		CollectedAt: time.Now().UTC(),
	}

	stored, err := s.metrics.InsertMetric(ctx, metric)
	if err != nil {
		return storage.PostMetric{}, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	s.logger.Debug().Int64("post_id", postID).Str("platform", platform).Msg("metric ingested")
	return stored, nil
}

// NightlyWinnerJob selects each brand's best-performing post and upserts
// it into the similarity store under the brand's winner key. One brand's
// failure increments Errors and processing continues; re-running on
// unchanged data recomputes the same keys and overwrites in place.
// Cancellation is checked between brands, never mid-brand.
func (s *Service) NightlyWinnerJob(ctx context.Context) (JobStats, error) {
	var stats JobStats

	brands, err := s.brands.ListBrands(ctx)
	if err != nil {
		return stats, fmt.Errorf("%w: list brands: %v", ErrTransient, err)
	}

	for _, brand := range brands {
		if err := ctx.Err(); err != nil {
			s.logger.Warn().Int("brands_processed", stats.BrandsProcessed).Msg("nightly winner job cancelled")
			return stats, err
		}

		stats.BrandsProcessed++
		stored, err := s.processBrand(ctx, brand)
		if err != nil {
			stats.Errors++
			s.logger.Error().Err(err).Int64("brand_id", brand.ID).Msg("brand winner selection failed")
			continue
		}
		if stored {
			stats.WinnersIdentified++
		}
	}

	s.logger.Info().
		Int("brands", stats.BrandsProcessed).
		Int("winners", stats.WinnersIdentified).
		Int("errors", stats.Errors).
		Msg("nightly winner job complete")
	return stats, nil
}

func (s *Service) processBrand(ctx context.Context, brand storage.Brand) (bool, error) {
	posts, err := s.posts.ListPostsByBrand(ctx, brand.ID)
	if err != nil {
		return false, fmt.Errorf("list posts: %w", err)
	}
	if len(posts) == 0 {
		return false, nil
	}

	metricsByPost := make(map[int64][]storage.PostMetric, len(posts))
	for _, post := range posts {
		metrics, err := s.metrics.ListMetricsByPost(ctx, post.ID)
		if err != nil {
			return false, fmt.Errorf("list metrics for post %d: %w", post.ID, err)
		}
		metricsByPost[post.ID] = metrics
	}

	best := winner.SelectBest(posts, metricsByPost)
	if best == nil {
		return false, nil
	}

	key := similarity.WinnerKey(brand.ID, best.ID)
	metadata := map[string]string{
		"brandID":   strconv.FormatInt(brand.ID, 10),
		"postID":    strconv.FormatInt(best.ID, 10),
		"variant":   best.Variant,
		"createdAt": best.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := s.store.Add(key, best.Content, metadata); err != nil {
		return false, fmt.Errorf("store winner: %w", err)
	}
	return true, nil
}

// AnalyzeTrends groups a brand's posts by variant over the trailing
// window and reports per-variant aggregates plus the top-revenue
// variant. A window with no posts yields NoData, not an error.
func (s *Service) AnalyzeTrends(ctx context.Context, brandID int64, windowDays int) (TrendReport, error) {
	report := TrendReport{BrandID: brandID, WindowDays: windowDays}

	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	posts, err := s.posts.ListPostsByBrandSince(ctx, brandID, since)
	if err != nil {
		return report, fmt.Errorf("%w: list posts: %v", ErrTransient, err)
	}
	if len(posts) == 0 {
		report.NoData = true
		return report, nil
	}

	byVariant := make(map[string]*VariantTrend)
	variantOrder := make([]string, 0, 3)
	for _, post := range posts {
		trend, ok := byVariant[post.Variant]
		if !ok {
			trend = &VariantTrend{Variant: post.Variant}
			byVariant[post.Variant] = trend
			variantOrder = append(variantOrder, post.Variant)
		}
		trend.Posts++

		metrics, err := s.metrics.ListMetricsByPost(ctx, post.ID)
		if err != nil {
			return report, fmt.Errorf("%w: list metrics: %v", ErrTransient, err)
		}
		for _, m := range metrics {
			trend.Impressions += m.Impressions
			trend.Clicks += m.Clicks
			trend.Conversions += m.Conversions
			trend.Revenue = trend.Revenue.Add(m.Revenue)
		}
	}

	topRevenue := decimal.Zero
	for _, variant := range variantOrder {
		trend := byVariant[variant]
		if trend.Impressions > 0 {
			trend.AvgCTR = decimal.NewFromInt(trend.Clicks).Div(decimal.NewFromInt(trend.Impressions))
		}
		if trend.Clicks > 0 {
			trend.AvgConversionRate = decimal.NewFromInt(trend.Conversions).Div(decimal.NewFromInt(trend.Clicks))
		}
		if trend.Posts > 0 {
			trend.AvgRevenuePerPost = trend.Revenue.Div(decimal.NewFromInt(int64(trend.Posts)))
		}

		report.Variants = append(report.Variants, *trend)
		if report.TopVariant == "" || trend.Revenue.GreaterThan(topRevenue) {
			report.TopVariant = variant
			topRevenue = trend.Revenue
		}
	}

	return report, nil
}

// Store exposes the similarity store for the HTTP layer.
func (s *Service) Store() *similarity.Store {
	return s.store
}
