package app

import (
	"context"
	"fmt"
	"os"

	"content-feedback/internal/similarity"
)

// Rebuild repopulates a fresh similarity store by running the winner
// selection over every brand once. The store is a rebuildable cache:
// after a restart this recreates exactly the records the nightly job
// would have produced.
func (a *App) Rebuild(ctx context.Context) error {
	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	store := similarity.NewStore(a.Config.Similarity.EmbeddingDims)
	svc := a.newFeedbackService(repo, store)

	stats, err := svc.NightlyWinnerJob(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "brands processed: %d\nwinners identified: %d\nerrors: %d\n",
		stats.BrandsProcessed, stats.WinnersIdentified, stats.Errors)

	if stats.Errors > 0 {
		a.Logger.Warn().Int("errors", stats.Errors).Msg("rebuild finished with per-brand errors")
	}
	return nil
}
