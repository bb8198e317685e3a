package dispatch

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/lilinghai/tidb-testing/core/fingerprint"
	"github.com/lilinghai/tidb-testing/core/models"
	"github.com/lilinghai/tidb-testing/storage"
)

// Engine performs idempotent build dispatch against the ledger.
type Engine struct {
	ledger storage.BuildLedger
	router *Router
}

// NewEngine creates a dispatch engine.
func NewEngine(ledger storage.BuildLedger, router *Router) *Engine {
	return &Engine{ledger: ledger, router: router}
}

// Dispatch fingerprints params and either returns the existing record
// for (job, fingerprint) or triggers a new remote build and appends a
// record for it. Unless force is set, at most one remote trigger ever
// happens per distinct parameter set.
//
// The recorded build URL uses the build number predicted before
// triggering. A concurrent external trigger against the same job can
// claim that number first, in which case the URL points at the wrong
// build; the post-trigger check below logs when that happened. The
// remote number only becomes authoritative once reconciliation
// observes the build.
func (e *Engine) Dispatch(ctx context.Context, job models.Job, params map[string]string, force bool) (models.BuildRecord, error) {
	fp := fingerprint.Sum(params)

	matches, err := e.ledger.Find(func(rec models.BuildRecord) bool {
		return rec.Job == job && rec.Fingerprint == fp
	})
	if err != nil {
		return models.BuildRecord{}, err
	}
	if len(matches) > 0 && !force {
		return matches[len(matches)-1], nil
	}

	backend, err := e.router.Resolve(job)
	if err != nil {
		return models.BuildRecord{}, err
	}

	number, err := backend.NextBuildNumber(ctx, string(job))
	if err != nil {
		return models.BuildRecord{}, fmt.Errorf("dispatch %s: %w", job, err)
	}

	merged := make(map[string]string, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["dispatch_id"] = uuid.NewString()

	if err := backend.Trigger(ctx, string(job), merged); err != nil {
		return models.BuildRecord{}, fmt.Errorf("dispatch %s: %w", job, err)
	}

	if after, err := backend.NextBuildNumber(ctx, string(job)); err == nil && after > number+1 {
		log.Printf("WARN: job %s next build moved from %d to %d during trigger, recorded URL may point at a foreign build", job, number, after)
	}

	rec := models.BuildRecord{
		Job:         job,
		Fingerprint: fp,
		BuildURL:    backend.BuildURL(string(job), number),
		Status:      models.StatusUnknown,
	}
	if err := e.ledger.Append(rec); err != nil {
		return models.BuildRecord{}, fmt.Errorf("dispatch %s: %w", job, err)
	}
	return rec, nil
}
