package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	listBrandsSQL = `SELECT id, name, created_at
    FROM brands
    ORDER BY id;`

	listPostsByBrandSQL = `SELECT id, brand_id, variant, content, created_at
    FROM posts
    WHERE brand_id = $1
    ORDER BY created_at, id;`

	listPostsByBrandSinceSQL = `SELECT id, brand_id, variant, content, created_at
    FROM posts
    WHERE brand_id = $1
      AND created_at >= $2
    ORDER BY created_at, id;`

	insertMetricSQL = `INSERT INTO post_metrics (
        post_id,
        platform,
        impressions,
        clicks,
        ctr,
        conversions,
        revenue,
        collected_at
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8
    )
    RETURNING id;`

	listMetricsByPostSQL = `SELECT
        id,
        post_id,
        platform,
        impressions,
        clicks,
        ctr,
        conversions,
        revenue,
        collected_at
    FROM post_metrics
    WHERE post_id = $1
    ORDER BY collected_at, id;`

	listMetricsForBrandBetweenSQL = `SELECT
        m.id,
        m.post_id,
        m.platform,
        m.impressions,
        m.clicks,
        m.ctr,
        m.conversions,
        m.revenue,
        m.collected_at
    FROM post_metrics m
    JOIN posts p ON p.id = m.post_id
    WHERE p.brand_id = $1
      AND m.collected_at >= $2
      AND m.collected_at < $3
    ORDER BY m.collected_at, m.id;`

	listRecentMetricsSQL = `SELECT
        id,
        post_id,
        platform,
        impressions,
        clicks,
        ctr,
        conversions,
        revenue,
        collected_at
    FROM post_metrics
    ORDER BY collected_at DESC, id DESC
    LIMIT $1;`
)

// BrandStore lists the brands the nightly job iterates over.
type BrandStore interface {
	ListBrands(ctx context.Context) ([]Brand, error)
}

// PostStore exposes post lookups scoped to a brand.
type PostStore interface {
	ListPostsByBrand(ctx context.Context, brandID int64) ([]Post, error)
	ListPostsByBrandSince(ctx context.Context, brandID int64, since time.Time) ([]Post, error)
}

// MetricStore exposes metric persistence and retrieval.
type MetricStore interface {
	InsertMetric(ctx context.Context, metric PostMetric) (PostMetric, error)
	ListMetricsByPost(ctx context.Context, postID int64) ([]PostMetric, error)
	ListMetricsForBrandBetween(ctx context.Context, brandID int64, from, to time.Time) ([]PostMetric, error)
	ListRecentMetrics(ctx context.Context, limit int) ([]PostMetric, error)
}

// Repository aggregates access to brands, posts, and metrics.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgx pool into a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Close releases the underlying pool resources.
func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

func (r *Repository) getPool() (*pgxpool.Pool, error) {
	if r == nil || r.pool == nil {
		return nil, ErrNotConfigured
	}
	return r.pool, nil
}

// ListBrands returns all brands ordered by id.
func (r *Repository) ListBrands(ctx context.Context) ([]Brand, error) {
	pool, err := r.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listBrandsSQL)
	if queryErr != nil {
		return nil, fmt.Errorf("list brands: %w", queryErr)
	}
	defer rows.Close()

	brands := make([]Brand, 0)
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return brands, nil
}

// ListPostsByBrand returns all posts owned by a brand.
func (r *Repository) ListPostsByBrand(ctx context.Context, brandID int64) ([]Post, error) {
	return r.listPosts(ctx, listPostsByBrandSQL, brandID)
}

// ListPostsByBrandSince returns posts created at or after the cutoff.
func (r *Repository) ListPostsByBrandSince(ctx context.Context, brandID int64, since time.Time) ([]Post, error) {
	return r.listPosts(ctx, listPostsByBrandSinceSQL, brandID, since)
}

func (r *Repository) listPosts(ctx context.Context, sql string, args ...any) ([]Post, error) {
	pool, err := r.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, sql, args...)
	if queryErr != nil {
		return nil, fmt.Errorf("list posts: %w", queryErr)
	}
	defer rows.Close()

	posts := make([]Post, 0)
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.BrandID, &p.Variant, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return posts, nil
}

// InsertMetric appends a metric observation and returns it with its id set.
func (r *Repository) InsertMetric(ctx context.Context, metric PostMetric) (PostMetric, error) {
	pool, err := r.getPool()
	if err != nil {
		return PostMetric{}, err
	}

	ctr := metric.CTR.String()
	revenue := metric.Revenue.String()

	row := pool.QueryRow(ctx, insertMetricSQL,
		metric.PostID,
		metric.Platform,
		metric.Impressions,
		metric.Clicks,
		ctr,
		metric.Conversions,
		revenue,
		metric.CollectedAt,
	)
	if scanErr := row.Scan(&metric.ID); scanErr != nil {
		return PostMetric{}, fmt.Errorf("insert metric: %w", scanErr)
	}
	return metric, nil
}

// ListMetricsByPost returns all metric rows for a post ordered by collection time.
func (r *Repository) ListMetricsByPost(ctx context.Context, postID int64) ([]PostMetric, error) {
	return r.listMetrics(ctx, listMetricsByPostSQL, postID)
}

// ListMetricsForBrandBetween returns a brand's metric rows within a window.
func (r *Repository) ListMetricsForBrandBetween(ctx context.Context, brandID int64, from, to time.Time) ([]PostMetric, error) {
	return r.listMetrics(ctx, listMetricsForBrandBetweenSQL, brandID, from, to)
}

// ListRecentMetrics returns the most recent metric rows across all posts.
func (r *Repository) ListRecentMetrics(ctx context.Context, limit int) ([]PostMetric, error) {
	return r.listMetrics(ctx, listRecentMetricsSQL, limit)
}

func (r *Repository) listMetrics(ctx context.Context, sql string, args ...any) ([]PostMetric, error) {
	pool, err := r.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, sql, args...)
	if queryErr != nil {
		return nil, fmt.Errorf("list metrics: %w", queryErr)
	}
	defer rows.Close()

	metrics := make([]PostMetric, 0)
	for rows.Next() {
		metric, scanErr := scanMetric(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		metrics = append(metrics, metric)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return metrics, nil
}

func scanMetric(rows pgx.Rows) (PostMetric, error) {
	var (
		metric     PostMetric
		ctrStr     string
		revenueStr string
	)

	if err := rows.Scan(
		&metric.ID,
		&metric.PostID,
		&metric.Platform,
		&metric.Impressions,
		&metric.Clicks,
		&ctrStr,
		&metric.Conversions,
		&revenueStr,
		&metric.CollectedAt,
	); err != nil {
		return PostMetric{}, err
	}

	var convErr error
	metric.CTR, convErr = decimal.NewFromString(ctrStr)
	if convErr != nil {
		return PostMetric{}, fmt.Errorf("parse ctr: %w", convErr)
	}
	metric.Revenue, convErr = decimal.NewFromString(revenueStr)
	if convErr != nil {
		return PostMetric{}, fmt.Errorf("parse revenue: %w", convErr)
	}

	return metric, nil
}

var _ BrandStore = (*Repository)(nil)
var _ PostStore = (*Repository)(nil)
var _ MetricStore = (*Repository)(nil)
