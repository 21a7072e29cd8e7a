// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package federation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/canonical/db-federation-service/internal/config"
	"github.com/canonical/db-federation-service/internal/datasource"
	"github.com/canonical/db-federation-service/internal/importer"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/storage"
	"github.com/canonical/db-federation-service/internal/synclock"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/internal/types"
)

const defaultSyncLockTTL = 30 * time.Minute

var _ ServiceInterface = (*Service)(nil)

// Service is the host side of the federation: it resolves users across the
// local store and the external databases and applies each instance policy.
type Service struct {
	registry RegistryInterface
	storage  storage.StorageInterface
	locker   synclock.LockerInterface
	lockTTL  time.Duration

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) ListInstances(ctx context.Context) []*InstanceView {
	_, span := s.tracer.Start(ctx, "federation.Service.ListInstances")
	defer span.End()

	instances := s.registry.List()

	views := make([]*InstanceView, 0, len(instances))
	for _, i := range instances {
		views = append(views, newInstanceView(i))
	}

	return views
}

func (s *Service) GetInstance(ctx context.Context, id string) (*InstanceView, error) {
	_, span := s.tracer.Start(ctx, "federation.Service.GetInstance")
	defer span.End()

	instance, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}

	return newInstanceView(instance), nil
}

func (s *Service) ConfigureInstance(ctx context.Context, spec *config.InstanceSpec) (*InstanceView, error) {
	ctx, span := s.tracer.Start(ctx, "federation.Service.ConfigureInstance")
	defer span.End()

	instance, err := s.registry.Configure(ctx, spec)
	if err != nil {
		return nil, err
	}

	return newInstanceView(instance), nil
}

func (s *Service) RemoveInstance(ctx context.Context, id string) error {
	_, span := s.tracer.Start(ctx, "federation.Service.RemoveInstance")
	defer span.End()

	return s.registry.Remove(id)
}

// GetUserByID accepts both local ids and storage ids of external users.
func (s *Service) GetUserByID(ctx context.Context, instanceID, id string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "federation.Service.GetUserByID")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return nil, err
	}

	if id == "" {
		return nil, ErrInvalidUserID
	}

	owner, externalID, ok := ParseStorageID(id)
	if !ok {
		local, err := s.localUser(ctx, func(ctx context.Context) (*types.User, error) {
			return s.storage.GetUser(ctx, id)
		})
		if err != nil {
			return nil, err
		}

		if local == nil || !s.visible(instance, local) {
			return nil, ErrUserNotFound
		}

		return local, nil
	}

	if owner != instance.ID {
		return nil, ErrUserNotFound
	}

	record, err := instance.Repository.FindByID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if record == nil {
		return nil, ErrUserNotFound
	}

	return s.resolve(ctx, instance, record)
}

func (s *Service) GetUserByUsername(ctx context.Context, instanceID, username string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "federation.Service.GetUserByUsername")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return nil, err
	}

	return s.lookup(
		ctx,
		instance,
		func(ctx context.Context) (*types.User, error) { return s.storage.GetUserByUsername(ctx, username) },
		func(ctx context.Context) (*types.ExternalUserRecord, error) {
			return instance.Repository.FindByUsername(ctx, username)
		},
	)
}

func (s *Service) GetUserByEmail(ctx context.Context, instanceID, email string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "federation.Service.GetUserByEmail")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return nil, err
	}

	return s.lookup(
		ctx,
		instance,
		func(ctx context.Context) (*types.User, error) { return s.storage.GetUserByEmail(ctx, email) },
		func(ctx context.Context) (*types.ExternalUserRecord, error) {
			return instance.Repository.FindByEmail(ctx, email)
		},
	)
}

// SearchUsers lists external users of the instance, each resolved to its
// local copy when there is one.
func (s *Service) SearchUsers(ctx context.Context, instanceID, search string, page *datasource.PageRequest) ([]*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "federation.Service.SearchUsers")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return nil, err
	}

	records, err := instance.Repository.FindUsers(ctx, search, page)
	if err != nil {
		return nil, err
	}

	users := make([]*types.User, 0, len(records))
	for _, r := range records {
		u, err := s.resolve(ctx, instance, r)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, nil
}

func (s *Service) CountUsers(ctx context.Context, instanceID, search string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "federation.Service.CountUsers")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return 0, err
	}

	return instance.Repository.Count(ctx, search)
}

// ValidateCredentials checks the password against the external database.
// A local user that is not linked to the instance shadows the external one
// and is never validated here. A successful login may import or refresh the
// local copy, failures of that step are logged only.
func (s *Service) ValidateCredentials(ctx context.Context, instanceID, username, password string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "federation.Service.ValidateCredentials")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return false, err
	}

	local, err := s.localUser(ctx, func(ctx context.Context) (*types.User, error) {
		return s.storage.GetUserByUsername(ctx, username)
	})
	if err != nil {
		return false, err
	}

	if local != nil && local.FederationLink != instance.ID {
		s.logger.Debugf("user %q is not managed by instance %q", username, instance.ID)
		s.logger.Security().AuthnFailure(username)
		return false, nil
	}

	valid, err := instance.Repository.ValidateCredentials(ctx, username, password)
	if err != nil {
		return false, err
	}

	if !valid {
		s.logger.Security().AuthnFailure(username)
		return false, nil
	}

	s.logger.Security().AuthnSuccess(username)

	if err := s.importOnLogin(ctx, instance, local, username); err != nil {
		s.logger.Errorf("failed to import user %q on login: %v", username, err)
	}

	return true, nil
}

func (s *Service) importOnLogin(ctx context.Context, instance *Instance, local *types.User, username string) error {
	create := local == nil && instance.Config.SyncNewUsersOnLogin
	refresh := local != nil && instance.Config.AllowOverwrite

	if !create && !refresh {
		return nil
	}

	record, err := instance.Repository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if record == nil {
		return fmt.Errorf("user %q vanished from instance %q", username, instance.ID)
	}

	if create {
		_, err := s.storage.CreateUser(ctx, types.NewUserFromExternal(record, instance.ID))
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil
		}
		return err
	}

	if !local.ApplyExternal(record, instance.ID) {
		return nil
	}

	_, err = s.storage.UpdateUser(ctx, local)
	return err
}

// UpdateCredentials writes a new password hash to the external database.
// Users with a local account not linked to the instance are left alone.
func (s *Service) UpdateCredentials(ctx context.Context, instanceID, username, password string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "federation.Service.UpdateCredentials")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return false, err
	}

	local, err := s.localUser(ctx, func(ctx context.Context) (*types.User, error) {
		return s.storage.GetUserByUsername(ctx, username)
	})
	if err != nil {
		return false, err
	}

	if local != nil && local.FederationLink != instance.ID {
		return false, nil
	}

	return instance.Repository.UpdateCredentials(ctx, username, password)
}

func (s *Service) ListLinkedUsers(ctx context.Context, instanceID string, offset, limit uint64) ([]*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "federation.Service.ListLinkedUsers")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return nil, err
	}

	return s.storage.ListUsersByFederationLink(ctx, instance.ID, offset, limit)
}

// RemoveUser deletes the local copy of a federated user, the external
// record is never touched.
func (s *Service) RemoveUser(ctx context.Context, instanceID, username string) error {
	ctx, span := s.tracer.Start(ctx, "federation.Service.RemoveUser")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return err
	}

	if !instance.Config.AllowLocalDelete {
		return ErrLocalDeleteDisabled
	}

	local, err := s.linkedUser(ctx, instance, username)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteUser(ctx, local.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.logger.Infof("Removed local copy of user %q from instance %q", username, instance.ID)

	return nil
}

// UnlinkUser turns a federated user into a plain local one.
func (s *Service) UnlinkUser(ctx context.Context, instanceID, username string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "federation.Service.UnlinkUser")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return nil, err
	}

	if !instance.Config.UnlinkEnabled {
		return nil, ErrUnlinkDisabled
	}

	local, err := s.linkedUser(ctx, instance, username)
	if err != nil {
		return nil, err
	}

	local.FederationLink = ""

	updated, err := s.storage.UpdateUser(ctx, local)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logger.Infof("Unlinked user %q from instance %q", username, instance.ID)

	return updated, nil
}

// Sync runs the synchronization engine of the instance. Runs are serialized
// per instance across replicas by the lock.
func (s *Service) Sync(ctx context.Context, instanceID string) (*types.SyncResult, error) {
	ctx, span := s.tracer.Start(ctx, "federation.Service.Sync")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return nil, err
	}

	if !instance.Config.SyncEnabled {
		return nil, ErrSyncDisabled
	}

	release, err := s.locker.Acquire(ctx, instance.ID, s.lockTTL)
	if errors.Is(err, synclock.ErrLocked) {
		return nil, ErrSyncInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}

	defer func() {
		if err := release(context.Background()); err != nil {
			s.logger.Errorf("failed to release sync lock of %q: %v", instance.ID, err)
		}
	}()

	result, err := instance.Importer.Run(ctx)
	if errors.Is(err, importer.ErrSyncInProgress) {
		return nil, ErrSyncInProgress
	}

	return result, err
}

func (s *Service) SyncStatus(ctx context.Context, instanceID string) (*types.SyncResult, error) {
	_, span := s.tracer.Start(ctx, "federation.Service.SyncStatus")
	defer span.End()

	instance, err := s.registry.Get(instanceID)
	if err != nil {
		return nil, err
	}

	if last := instance.Importer.LastResult(); last != nil {
		return last, nil
	}

	return &types.SyncResult{Instance: instance.ID, State: types.SyncStateIdle}, nil
}

// lookup returns the local user when the instance may expose it, the
// external record otherwise.
func (s *Service) lookup(
	ctx context.Context,
	instance *Instance,
	local func(context.Context) (*types.User, error),
	external func(context.Context) (*types.ExternalUserRecord, error),
) (*types.User, error) {
	u, err := s.localUser(ctx, local)
	if err != nil {
		return nil, err
	}

	if u != nil && s.visible(instance, u) {
		return u, nil
	}

	record, err := external(ctx)
	if err != nil {
		return nil, err
	}

	if record == nil {
		return nil, ErrUserNotFound
	}

	return s.toUser(instance, record), nil
}

// resolve maps an external record to its local copy if one is visible to
// the instance.
func (s *Service) resolve(ctx context.Context, instance *Instance, record *types.ExternalUserRecord) (*types.User, error) {
	return s.lookup(
		ctx,
		instance,
		func(ctx context.Context) (*types.User, error) { return s.storage.GetUserByUsername(ctx, record.Username()) },
		func(context.Context) (*types.ExternalUserRecord, error) { return record, nil },
	)
}

// visible reports whether the instance may expose the local user: plain
// local users and users linked to it are, users of other instances are not.
func (s *Service) visible(instance *Instance, u *types.User) bool {
	return !u.IsFederated() || u.FederationLink == instance.ID
}

func (s *Service) localUser(ctx context.Context, get func(context.Context) (*types.User, error)) (*types.User, error) {
	u, err := get(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up local user: %w", err)
	}

	return u, nil
}

func (s *Service) linkedUser(ctx context.Context, instance *Instance, username string) (*types.User, error) {
	local, err := s.localUser(ctx, func(ctx context.Context) (*types.User, error) {
		return s.storage.GetUserByUsername(ctx, username)
	})
	if err != nil {
		return nil, err
	}

	if local == nil {
		return nil, ErrUserNotFound
	}

	if local.FederationLink != instance.ID {
		return nil, ErrUserNotLinked
	}

	return local, nil
}

func (s *Service) toUser(instance *Instance, record *types.ExternalUserRecord) *types.User {
	u := types.NewUserFromExternal(record, instance.ID)
	u.ID = StorageID(instance.ID, record.ID())

	return u
}

func NewService(registry RegistryInterface, s storage.StorageInterface, locker synclock.LockerInterface, lockTTL time.Duration, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	svc := new(Service)

	svc.registry = registry
	svc.storage = s
	svc.locker = locker

	svc.lockTTL = lockTTL
	if svc.lockTTL <= 0 {
		svc.lockTTL = defaultSyncLockTTL
	}

	svc.tracer = tracer
	svc.monitor = monitor
	svc.logger = logger

	return svc
}
