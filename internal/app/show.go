package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"
)

// Show prints recent metric observations.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	metrics, err := repo.ListRecentMetrics(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(metrics) == 0 {
		fmt.Fprintln(os.Stdout, "no metrics found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Collected (UTC)\tPost\tPlatform\tImpressions\tClicks\tCTR\tConversions\tRevenue")

	for _, m := range metrics {
		fmt.Fprintf(writer, "%s\t%d\t%s\t%d\t%d\t%s\t%d\t%s\n",
			m.CollectedAt.UTC().Format(time.RFC3339),
			m.PostID,
			m.Platform,
			m.Impressions,
			m.Clicks,
			m.CTR.StringFixed(4),
			m.Conversions,
			m.Revenue.StringFixed(2),
		)
	}

	return writer.Flush()
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
