package tasks

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/mcat/internal/services"
	"github.com/desertthunder/mcat/internal/shared"
	"golang.org/x/time/rate"
)

// BulkDeleteOpts contains configuration for bulk deletes.
type BulkDeleteOpts struct {
	NumWorkers int     // concurrent deletes, 1 to 10 (default: 5)
	RateLimit  float64 // deletes per second (default: 5)
}

// DeleteResult is the outcome of deleting one record.
type DeleteResult struct {
	Entity services.Entity
	ID     string
	Error  error
}

// BulkDeleteResult summarizes a bulk delete. Results keep the order of the requested ids.
type BulkDeleteResult struct {
	Deleted int
	Failed  int
	Results []DeleteResult
}

// Err joins the failures, or returns nil when every delete succeeded.
func (r *BulkDeleteResult) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d deletes failed", shared.ErrAPIRequest, r.Failed, len(r.Results))
}

// BulkDelete removes records of one kind concurrently. Duplicate ids are deleted once.
//
// Every delete is paced by a shared limiter. Failures do not stop the remaining deletes.
func (e *Engine) BulkDelete(ctx context.Context, prog chan<- ProgressUpdate, entity services.Entity, ids []string, opts BulkDeleteOpts) (*BulkDeleteResult, error) {
	if e.manager == nil {
		return nil, fmt.Errorf("%w: management client not initialized", shared.ErrServiceUnavailable)
	}

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no %s ids", shared.ErrMissingArgument, entity)
	}

	workers := min(clampWorkers(opts.NumWorkers), len(ids))
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), workers)

	type indexed struct {
		i   int
		res DeleteResult
	}

	jobs := make(chan int, len(ids))
	results := make(chan indexed, len(ids))
	for i := range ids {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := DeleteResult{Entity: entity, ID: ids[i]}
				if err := limiter.Wait(ctx); err != nil {
					res.Error = err
				} else {
					res.Error = e.manager.Delete(ctx, entity, ids[i])
				}
				results <- indexed{i: i, res: res}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := &BulkDeleteResult{Results: make([]DeleteResult, len(ids))}
	step := 0
	for r := range results {
		step++
		out.Results[r.i] = r.res
		if r.res.Error != nil {
			out.Failed++
		} else {
			out.Deleted++
		}
		e.sendProgress(prog, deleteUpdate(step, len(ids), r.res))
	}

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
