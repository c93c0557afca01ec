package analyzer

import (
	"context"
	"time"

	"github.com/alankar423/CreatorIQ/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AnalyzeMultipleChannels processes requests in fixed-size groups. Requests
// within a group run concurrently; the optional delay sleeps between groups,
// never within one, to stay inside external provider rate limits. Results
// preserve input order regardless of completion order.
func (a *Analyzer) AnalyzeMultipleChannels(ctx context.Context, reqs []models.AnalysisRequest, opts models.BatchOptions) []*models.AnalysisResponse {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = a.batch.Concurrency
	}
	delay := time.Duration(opts.DelayMs) * time.Millisecond
	if opts.DelayMs == 0 {
		delay = time.Duration(a.batch.DelayMs) * time.Millisecond
	}

	results := make([]*models.AnalysisResponse, len(reqs))
	groups := (len(reqs) + concurrency - 1) / concurrency

	fiberlog.Infof("batch analysis: %d requests in %d groups of up to %d", len(reqs), groups, concurrency)

	for start := 0; start < len(reqs); start += concurrency {
		end := min(start+concurrency, len(reqs))

		g, groupCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = a.AnalyzeChannel(groupCtx, &reqs[i], models.AnalyzeOptions{Provider: opts.Provider})
				return nil
			})
		}
		// AnalyzeChannel never returns an error; Wait only joins the group.
		_ = g.Wait()

		if delay > 0 && end < len(reqs) {
			select {
			case <-ctx.Done():
				// Mark the rest as failed rather than returning short. Each
				// envelope still carries its own request ID.
				for i := end; i < len(reqs); i++ {
					results[i] = failureResponse(uuid.New().String(), "", "", time.Now(),
						models.NewTimeoutError("batch analysis", ctx.Err()))
				}
				return results
			case <-time.After(delay):
			}
		}
	}
	return results
}
