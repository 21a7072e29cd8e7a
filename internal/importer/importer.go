// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/storage"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/internal/types"
)

var ErrSyncInProgress = errors.New("synchronization already in progress")

type outcome string

const (
	outcomeAdded     outcome = "added"
	outcomeUpdated   outcome = "updated"
	outcomeUnchanged outcome = "unchanged"
	outcomeSkipped   outcome = "skipped"
	outcomeFailed    outcome = "failed"
)

// Options carries the policy of the instance being synchronized.
type Options struct {
	Instance       string
	AllowOverwrite bool
	CreateMissing  bool
}

var _ ImporterInterface = (*Importer)(nil)

// Importer reconciles the external user set of one federation instance into
// the local store. It never deletes local users.
type Importer struct {
	source  SourceInterface
	storage StorageInterface
	options Options

	mu      sync.Mutex
	running bool
	last    *types.SyncResult

	// reports for this importer until its first run
	previous ImporterInterface

	now func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Run executes one synchronization pass:
// 1. Fetches every external record from the source.
// 2. Creates, updates or leaves untouched the matching local user, records
// sharing a username are applied in order so the last one wins.
// A second Run while one is active returns ErrSyncInProgress.
func (i *Importer) Run(ctx context.Context) (*types.SyncResult, error) {
	ctx, span := i.tracer.Start(ctx, "importer.Importer.Run")
	defer span.End()

	run, err := i.begin()
	if err != nil {
		return nil, err
	}

	records, err := i.source.GetAllUsersForSync(ctx)
	if err != nil {
		return i.finish(run, err), fmt.Errorf("failed to fetch users for sync: %w", err)
	}

	i.logger.Infof("Fetched %d users for instance %q", len(records), i.options.Instance)

	counts := make(map[outcome]int)
	defer i.record(counts)

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return i.finish(run, err), err
		}

		o, err := i.syncRecord(ctx, r)
		if err != nil {
			i.logger.Errorf("Failed to sync user: %v", err)
		}

		counts[o]++
		run.apply(o)
	}

	result := i.finish(run, nil)

	i.logger.Infof(
		"Sync of instance %q complete: added=%d updated=%d failed=%d",
		i.options.Instance, result.Added, result.Updated, result.Failed,
	)

	return result, nil
}

func (i *Importer) syncRecord(ctx context.Context, r *types.ExternalUserRecord) (outcome, error) {
	if r == nil || r.Username() == "" {
		return outcomeFailed, types.NewSyncItemError("Run", "", "missing username", nil)
	}

	username := r.Username()

	local, err := i.storage.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return outcomeFailed, types.NewSyncItemError("Run", username, "lookup failed", err)
	}

	if local == nil {
		if !i.options.CreateMissing {
			return outcomeSkipped, nil
		}

		if _, err := i.storage.CreateUser(ctx, types.NewUserFromExternal(r, i.options.Instance)); err != nil {
			return outcomeFailed, types.NewSyncItemError("Run", username, "create failed", err)
		}

		return outcomeAdded, nil
	}

	if local.IsFederated() && local.FederationLink != i.options.Instance {
		i.logger.Warnf("User %q is linked to instance %q, skipping", username, local.FederationLink)
		return outcomeSkipped, nil
	}

	if !i.options.AllowOverwrite {
		return outcomeUnchanged, nil
	}

	if !local.ApplyExternal(r, i.options.Instance) {
		return outcomeUnchanged, nil
	}

	if _, err := i.storage.UpdateUser(ctx, local); err != nil {
		return outcomeFailed, types.NewSyncItemError("Run", username, "update failed", err)
	}

	return outcomeUpdated, nil
}

func (i *Importer) begin() (*syncRun, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.running {
		return nil, ErrSyncInProgress
	}

	i.running = true
	i.previous = nil

	run := &syncRun{
		SyncResult: types.SyncResult{
			Instance:  i.options.Instance,
			State:     types.SyncStateRunning,
			StartedAt: i.now().UTC(),
		},
	}
	i.last = run.clone()

	return run, nil
}

// finish moves the run to its terminal state, an error aborts it.
func (i *Importer) finish(run *syncRun, err error) *types.SyncResult {
	i.mu.Lock()
	defer i.mu.Unlock()

	run.State = types.SyncStateCompleted
	if err != nil {
		run.State = types.SyncStateAborted
		run.Error = err.Error()
	}
	run.FinishedAt = i.now().UTC()

	i.running = false
	i.last = run.clone()

	return run.clone()
}

func (i *Importer) record(counts map[outcome]int) {
	for o, n := range counts {
		if n == 0 {
			continue
		}

		err := i.monitor.AddSyncRecordsMetric(
			map[string]string{"instance": i.options.Instance, "outcome": string(o)},
			float64(n),
		)
		if err != nil {
			i.logger.Debugf("failed to record sync metric: %v", err)
		}
	}
}

// Follow carries the sync history of the importer this one replaces: until
// its own first run, State and LastResult report the previous importer.
func (i *Importer) Follow(previous ImporterInterface) {
	if p, ok := previous.(*Importer); ok {
		p.mu.Lock()
		if p.last == nil {
			previous = p.previous
		}
		p.mu.Unlock()
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.last == nil {
		i.previous = previous
	}
}

// State returns the state of the current or most recent run.
func (i *Importer) State() types.SyncState {
	if r := i.LastResult(); r != nil {
		return r.State
	}

	return types.SyncStateIdle
}

// LastResult returns a copy of the most recent run, nil before the first one.
func (i *Importer) LastResult() *types.SyncResult {
	i.mu.Lock()
	last, previous := i.last, i.previous
	i.mu.Unlock()

	if last == nil {
		if previous != nil {
			return previous.LastResult()
		}
		return nil
	}

	r := *last
	return &r
}

type syncRun struct {
	types.SyncResult
}

func (r *syncRun) apply(o outcome) {
	switch o {
	case outcomeAdded:
		r.Added++
	case outcomeUpdated:
		r.Updated++
	case outcomeFailed:
		r.Failed++
	}
}

func (r *syncRun) clone() *types.SyncResult {
	c := r.SyncResult
	return &c
}

// NewImporter creates a new Importer reading from source and writing into storage.
func NewImporter(source SourceInterface, s StorageInterface, options Options, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Importer {
	i := new(Importer)

	i.source = source
	i.storage = s
	i.options = options
	i.now = time.Now

	i.tracer = tracer
	i.monitor = monitor
	i.logger = logger

	return i
}
