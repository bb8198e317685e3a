// Package dispatch fingerprints job parameters and triggers remote
// builds, using the build ledger to guarantee at most one dispatch per
// distinct parameter set.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/lilinghai/tidb-testing/core/models"
	"github.com/lilinghai/tidb-testing/providers/jenkins"
)

// ErrUnknownJob marks a job with no backend affinity. This is a
// configuration error, not a retryable condition.
var ErrUnknownJob = errors.New("no backend owns job")

// Backend is the uniform contract over one CI instance.
type Backend interface {
	NextBuildNumber(ctx context.Context, job string) (int, error)
	Trigger(ctx context.Context, job string, params map[string]string) error
	BuildInfo(ctx context.Context, job string, number int) (*jenkins.BuildInfo, error)
	BuildURL(job string, number int) string
}

// Affinity group names. Build jobs run on the internal instance,
// qualification tests on the shared QA instance.
const (
	GroupInternal = "internal"
	GroupQA       = "qa"
)

// jobGroups is the static job to backend affinity table.
var jobGroups = map[models.Job]string{
	models.JobBuildTiDB:    GroupInternal,
	models.JobBuildTiKV:    GroupInternal,
	models.JobBuildPD:      GroupInternal,
	models.JobBuildTiFlash: GroupInternal,
	models.JobBuildTools:   GroupInternal,
	models.JobReleaseTest:  GroupQA,
}

// Router resolves a job to the backend instance that owns it.
type Router struct {
	backends map[string]Backend
}

// NewRouter creates a router over backends keyed by affinity group.
func NewRouter(backends map[string]Backend) *Router {
	return &Router{backends: backends}
}

// Resolve returns the owning backend for a job, or ErrUnknownJob when
// either the affinity table or the configured backends have no entry.
func (r *Router) Resolve(job models.Job) (Backend, error) {
	group, ok := jobGroups[job]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, job)
	}
	backend, ok := r.backends[group]
	if !ok {
		return nil, fmt.Errorf("%w: %s (backend group %q not configured)", ErrUnknownJob, job, group)
	}
	return backend, nil
}
