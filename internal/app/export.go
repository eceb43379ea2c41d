package app

import (
	"context"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"content-feedback/internal/storage"
)

// Export renders a brand's metric history as CSV and/or a PNG chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}
	if opts.BrandID <= 0 {
		return errors.New("--brand must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	to := time.Now().UTC()
	if opts.To != nil {
		to = opts.To.UTC()
	}

	from := to.AddDate(0, 0, -30)
	if opts.From != nil {
		from = opts.From.UTC()
	}

	if !from.Before(to) {
		return errors.New("from must be before to")
	}

	metrics, err := repo.ListMetricsForBrandBetween(ctx, opts.BrandID, from, to)
	if err != nil {
		return err
	}
	if len(metrics) == 0 {
		a.Logger.Info().Int64("brand_id", opts.BrandID).Msg("no metrics found for export window")
		return nil
	}

	downsampled := downsampleMetrics(metrics, opts.MaxPoints)
	a.Logger.Info().Int("total", len(metrics)).Int("exported", len(downsampled)).Msg("exporting metrics")

	if opts.CSVPath != "" {
		if err := writeMetricsCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeMetricsPNG(opts.PNGPath, downsampled); err != nil {
			return err
		}
	}

	return nil
}

func downsampleMetrics(metrics []storage.PostMetric, max int) []storage.PostMetric {
	if max <= 0 || len(metrics) <= max {
		return metrics
	}

	result := make([]storage.PostMetric, 0, max)
	step := float64(len(metrics)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(metrics) {
			idx = len(metrics) - 1
		}
		result = append(result, metrics[idx])
	}
	return result
}

func writeMetricsCSV(path string, metrics []storage.PostMetric) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"collected_at", "post_id", "platform", "impressions", "clicks", "ctr", "conversions", "revenue"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, metric := range metrics {
		record := []string{
			metric.CollectedAt.Format(time.RFC3339),
			formatInt(metric.PostID),
			metric.Platform,
			formatInt(metric.Impressions),
			formatInt(metric.Clicks),
			metric.CTR.String(),
			formatInt(metric.Conversions),
			metric.Revenue.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeMetricsPNG(path string, metrics []storage.PostMetric) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(metrics))
	revenue := make([]float64, len(metrics))
	ctr := make([]float64, len(metrics))

	for i, metric := range metrics {
		x[i] = metric.CollectedAt
		revenue[i] = metric.Revenue.InexactFloat64()
		ctr[i] = metric.CTR.InexactFloat64() * 100
	}

	valueFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Revenue",
			ValueFormatter: valueFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "CTR (%)",
			ValueFormatter: valueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Revenue",
				XValues: x,
				YValues: revenue,
			},
			chart.TimeSeries{
				Name:    "CTR %",
				XValues: x,
				YValues: ctr,
				YAxis:   chart.YAxisSecondary,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
