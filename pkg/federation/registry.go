// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package federation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/canonical/db-federation-service/internal/config"
	"github.com/canonical/db-federation-service/internal/datasource"
	"github.com/canonical/db-federation-service/internal/importer"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/repository"
	"github.com/canonical/db-federation-service/internal/storage"
	"github.com/canonical/db-federation-service/internal/tracing"
)

// Instance is an immutable snapshot of one configured external database.
// Reconfiguration replaces the snapshot, callers holding the previous one
// keep a consistent view until they are done.
type Instance struct {
	ID         string
	Config     repository.QueryConfig
	Provider   datasource.ProviderInterface
	Repository repository.RepositoryInterface
	Importer   importer.ImporterInterface
}

var _ RegistryInterface = (*Registry)(nil)

type Registry struct {
	mu        sync.RWMutex
	instances map[string]*Instance

	storage     storage.StorageInterface
	newProvider func() datasource.ProviderInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (r *Registry) Get(id string) (*Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instance, ok := r.instances[id]
	if !ok {
		return nil, ErrInstanceNotFound
	}

	return instance, nil
}

// List returns the instances ordered by id.
func (r *Registry) List() []*Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instances := make([]*Instance, 0, len(r.instances))
	for _, i := range r.instances {
		instances = append(instances, i)
	}

	sort.Slice(instances, func(a, b int) bool { return instances[a].ID < instances[b].ID })

	return instances
}

// Configure creates or replaces an instance. Every snapshot gets its own
// provider, connected before the registry lock is taken. Once the new
// snapshot is published the previous provider is closed, callers still
// holding the previous snapshot fail with a connection error instead of
// running its templates against the new database. On any error the previous
// snapshot stays in place.
func (r *Registry) Configure(ctx context.Context, spec *config.InstanceSpec) (*Instance, error) {
	ctx, span := r.tracer.Start(ctx, "federation.Registry.Configure")
	defer span.End()

	options, err := spec.DatasourceOptions()
	if err != nil {
		return nil, err
	}

	qc, err := spec.QueryConfig()
	if err != nil {
		return nil, err
	}

	provider := r.newProvider()

	repo, err := repository.NewRepository(provider, qc, r.tracer, r.monitor, r.logger)
	if err != nil {
		return nil, err
	}

	if err := provider.Configure(ctx, options); err != nil {
		provider.Close()
		return nil, err
	}

	imp := importer.NewImporter(
		repo,
		r.storage,
		importer.Options{
			Instance:       spec.ID,
			AllowOverwrite: qc.AllowOverwrite,
			CreateMissing:  qc.SyncCreateMissing,
		},
		r.tracer,
		r.monitor,
		r.logger,
	)

	instance := new(Instance)
	instance.ID = spec.ID
	instance.Config = qc
	instance.Provider = provider
	instance.Repository = repo
	instance.Importer = imp

	r.mu.Lock()
	previous, replaced := r.instances[spec.ID]
	if replaced {
		imp.Follow(previous.Importer)
	}
	r.instances[spec.ID] = instance
	r.mu.Unlock()

	if replaced {
		if err := previous.Provider.Close(); err != nil {
			r.logger.Errorf("failed to close previous datasource of instance %q: %v", spec.ID, err)
		}
	}

	r.logger.Infof("Federation instance %q configured", spec.ID)

	return instance, nil
}

// Load configures every spec, stopping at the first failure.
func (r *Registry) Load(ctx context.Context, specs []config.InstanceSpec) error {
	for i := range specs {
		if _, err := r.Configure(ctx, &specs[i]); err != nil {
			return fmt.Errorf("failed to configure instance %q: %w", specs[i].ID, err)
		}
	}

	return nil
}

// Remove drops the instance and closes its pool, local users keep their
// federation link.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	instance, ok := r.instances[id]
	delete(r.instances, id)
	r.mu.Unlock()

	if !ok {
		return ErrInstanceNotFound
	}

	if err := instance.Provider.Close(); err != nil {
		return fmt.Errorf("failed to close instance %q: %v", id, err)
	}

	r.logger.Infof("Federation instance %q removed", id)

	return nil
}

// Close releases the pools of every instance.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, instance := range r.instances {
		if err := instance.Provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close instance %q: %v", id, err))
		}
		delete(r.instances, id)
	}

	return errors.Join(errs...)
}

func NewRegistry(s storage.StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Registry {
	r := new(Registry)

	r.instances = make(map[string]*Instance)
	r.storage = s
	r.newProvider = func() datasource.ProviderInterface {
		return datasource.NewProvider(tracer, monitor, logger)
	}

	r.tracer = tracer
	r.monitor = monitor
	r.logger = logger

	return r
}
