// Package reconcile converges ledger state with live backend status.
package reconcile

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/lilinghai/tidb-testing/core/dispatch"
	"github.com/lilinghai/tidb-testing/core/models"
	"github.com/lilinghai/tidb-testing/providers/jenkins"
	"github.com/lilinghai/tidb-testing/storage"
)

// Reconciler polls backends for every non-terminal build record and
// appends updated records when status changed.
type Reconciler struct {
	ledger      storage.BuildLedger
	router      *dispatch.Router
	concurrency int
}

// NewReconciler creates a reconciler. concurrency bounds the number of
// in-flight backend queries.
func NewReconciler(ledger storage.BuildLedger, router *dispatch.Router, concurrency int) *Reconciler {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Reconciler{ledger: ledger, router: router, concurrency: concurrency}
}

// Reconcile returns the current view of every dispatched job, sorted by
// job name. Status queries for different jobs run concurrently and
// unordered; ledger appends happen afterwards from this goroutine, so
// the single-writer ordering of the ledger holds. Running it again with
// no backend change appends nothing.
func (r *Reconciler) Reconcile(ctx context.Context) ([]models.BuildRecord, error) {
	records, err := r.ledger.Scan()
	if err != nil {
		return nil, err
	}

	// Last write wins per job name.
	current := make(map[models.Job]models.BuildRecord)
	for _, rec := range records {
		current[rec.Job] = rec
	}

	var terminal, open []models.BuildRecord
	backends := make([]dispatch.Backend, 0, len(current))
	for _, rec := range current {
		if rec.Status.Terminal() {
			terminal = append(terminal, rec)
			continue
		}
		// An affinity miss is a configuration error, not a soft
		// query failure, so it aborts the pass.
		backend, err := r.router.Resolve(rec.Job)
		if err != nil {
			return nil, err
		}
		open = append(open, rec)
		backends = append(backends, backend)
	}

	updated := make([]models.BuildRecord, len(open))
	var wg sync.WaitGroup
	sem := make(chan struct{}, r.concurrency)
	for i, rec := range open {
		wg.Add(1)
		go func(i int, rec models.BuildRecord, backend dispatch.Backend) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rec.Status = queryStatus(ctx, backend, rec)
			updated[i] = rec
		}(i, rec, backends[i])
	}
	wg.Wait()

	view := make([]models.BuildRecord, 0, len(current))
	view = append(view, terminal...)
	for i, rec := range updated {
		if rec.Status != open[i].Status {
			if err := r.ledger.Append(rec); err != nil {
				return nil, err
			}
		}
		view = append(view, rec)
	}

	sort.Slice(view, func(i, j int) bool { return view[i].Job < view[j].Job })
	return view, nil
}

// queryStatus asks the owning backend for current build status. Any
// query failure reads as pending: a build Jenkins has not indexed yet
// and a transient network error look the same from here, and both
// resolve on a later pass.
func queryStatus(ctx context.Context, backend dispatch.Backend, rec models.BuildRecord) models.BuildStatus {
	number, err := jenkins.BuildNumberFromURL(rec.BuildURL)
	if err != nil {
		log.Printf("reconcile %s: %v", rec.Job, err)
		return models.StatusPending
	}
	info, err := backend.BuildInfo(ctx, string(rec.Job), number)
	if err != nil {
		return models.StatusPending
	}
	return jenkins.StatusFromBuildInfo(info)
}
