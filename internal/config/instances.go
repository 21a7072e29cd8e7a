// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/canonical/db-federation-service/internal/credentials"
	"github.com/canonical/db-federation-service/internal/datasource"
	"github.com/canonical/db-federation-service/internal/repository"
	"github.com/canonical/db-federation-service/internal/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// InstancesFile is the document listing the federation instances to load
// at startup.
type InstancesFile struct {
	Instances []InstanceSpec `yaml:"instances"`
}

// InstanceSpec describes one external user database. It is read from the
// instances file and is also the body of the instance configure endpoint.
type InstanceSpec struct {
	ID         string         `yaml:"id" validate:"required,max=64,excludesall=:/ "`
	Connection ConnectionSpec `yaml:"connection"`
	Queries    QueriesSpec    `yaml:"queries"`

	HashAlgorithm    string `yaml:"hash_algorithm" default:"bcrypt" validate:"required"`
	PBKDF2Iterations int    `yaml:"pbkdf2_iterations" default:"27500" validate:"gte=0"`

	AllowOverwrite      bool  `yaml:"allow_overwrite"`
	SyncEnabled         bool  `yaml:"sync_enabled"`
	SyncCreateMissing   *bool `yaml:"sync_create_missing" default:"true"`
	SyncNewUsersOnLogin bool  `yaml:"sync_new_users_on_login"`
	AllowLocalDelete    bool  `yaml:"allow_local_delete"`
	UnlinkEnabled       bool  `yaml:"unlink_enabled"`
}

type ConnectionSpec struct {
	URL     string `yaml:"url" validate:"required"`
	Dialect string `yaml:"dialect" validate:"required"`
	User    string `yaml:"user"`
	// PasswordEnv names an environment variable holding the password, it
	// takes precedence over Password.
	Password    string `yaml:"password"`
	PasswordEnv string `yaml:"password_env"`

	MaxOpenConns    int           `yaml:"max_open_conns" default:"10" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" default:"2" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" default:"5m"`
	AcquireTimeout  time.Duration `yaml:"acquire_timeout" default:"30s"`
}

type QueriesSpec struct {
	Count              string `yaml:"count" validate:"required"`
	ListAll            string `yaml:"list_all" validate:"required"`
	ListAllForSync     string `yaml:"list_all_for_sync"`
	FindByID           string `yaml:"find_by_id" validate:"required"`
	FindByUsername     string `yaml:"find_by_username" validate:"required"`
	FindByEmail        string `yaml:"find_by_email" validate:"required"`
	FindBySearchTerm   string `yaml:"find_by_search_term" validate:"required"`
	FindPasswordHash   string `yaml:"find_password_hash" validate:"required"`
	UpdatePasswordHash string `yaml:"update_password_hash"`
}

// Prepare fills defaults and validates the instance definition.
func (s *InstanceSpec) Prepare() error {
	if err := defaults.Set(s); err != nil {
		return types.NewConfigurationError("config.InstanceSpec.Prepare", "failed to apply defaults", err)
	}

	if err := validate.Struct(s); err != nil {
		return types.NewConfigurationError("config.InstanceSpec.Prepare", fmt.Sprintf("invalid instance %q", s.ID), err)
	}

	return nil
}

// DatasourceOptions converts the connection section into provider options.
func (s *InstanceSpec) DatasourceOptions() (datasource.Options, error) {
	dialect, err := datasource.ParseDialect(s.Connection.Dialect)
	if err != nil {
		return datasource.Options{}, err
	}

	password := s.Connection.Password
	if s.Connection.PasswordEnv != "" {
		v, ok := os.LookupEnv(s.Connection.PasswordEnv)
		if !ok {
			return datasource.Options{}, types.NewConfigurationError(
				"config.InstanceSpec.DatasourceOptions",
				fmt.Sprintf("password variable %s is not set", s.Connection.PasswordEnv),
				nil,
			)
		}
		password = v
	}

	return datasource.Options{
		URL:             s.Connection.URL,
		Dialect:         dialect,
		User:            s.Connection.User,
		Password:        password,
		PoolID:          s.ID,
		MaxOpenConns:    s.Connection.MaxOpenConns,
		MaxIdleConns:    s.Connection.MaxIdleConns,
		ConnMaxLifetime: s.Connection.ConnMaxLifetime,
		ConnMaxIdleTime: s.Connection.ConnMaxIdleTime,
		AcquireTimeout:  s.Connection.AcquireTimeout,
	}, nil
}

// QueryConfig converts the query and policy sections into a repository
// configuration, it is validated by the repository itself.
func (s *InstanceSpec) QueryConfig() (repository.QueryConfig, error) {
	dialect, err := datasource.ParseDialect(s.Connection.Dialect)
	if err != nil {
		return repository.QueryConfig{}, err
	}

	algorithm, err := credentials.ParseAlgorithm(s.HashAlgorithm)
	if err != nil {
		return repository.QueryConfig{}, err
	}

	createMissing := true
	if s.SyncCreateMissing != nil {
		createMissing = *s.SyncCreateMissing
	}

	return repository.QueryConfig{
		Count:              s.Queries.Count,
		ListAll:            s.Queries.ListAll,
		ListAllForSync:     s.Queries.ListAllForSync,
		FindByID:           s.Queries.FindByID,
		FindByUsername:     s.Queries.FindByUsername,
		FindByEmail:        s.Queries.FindByEmail,
		FindBySearchTerm:   s.Queries.FindBySearchTerm,
		FindPasswordHash:   s.Queries.FindPasswordHash,
		UpdatePasswordHash: s.Queries.UpdatePasswordHash,

		Dialect:          dialect,
		HashAlgorithm:    algorithm,
		PBKDF2Iterations: s.PBKDF2Iterations,

		AllowOverwrite:      s.AllowOverwrite,
		SyncEnabled:         s.SyncEnabled,
		SyncCreateMissing:   createMissing,
		SyncNewUsersOnLogin: s.SyncNewUsersOnLogin,
		AllowLocalDelete:    s.AllowLocalDelete,
		UnlinkEnabled:       s.UnlinkEnabled,
	}, nil
}

// DecodeInstance reads a single instance spec, JSON documents are accepted
// as they are valid YAML.
func DecodeInstance(r io.Reader) (*InstanceSpec, error) {
	spec := new(InstanceSpec)

	if err := yaml.NewDecoder(r).Decode(spec); err != nil {
		return nil, types.NewConfigurationError("config.DecodeInstance", "malformed instance", err)
	}

	if err := spec.Prepare(); err != nil {
		return nil, err
	}

	return spec, nil
}

// ParseInstances reads an instances document and prepares every entry.
// Instance ids must be unique.
func ParseInstances(r io.Reader) ([]InstanceSpec, error) {
	file := new(InstancesFile)

	if err := yaml.NewDecoder(r).Decode(file); err != nil && !errors.Is(err, io.EOF) {
		return nil, types.NewConfigurationError("config.ParseInstances", "malformed instances file", err)
	}

	seen := make(map[string]struct{}, len(file.Instances))
	for i := range file.Instances {
		if err := file.Instances[i].Prepare(); err != nil {
			return nil, err
		}

		id := file.Instances[i].ID
		if _, ok := seen[id]; ok {
			return nil, types.NewConfigurationError("config.ParseInstances", fmt.Sprintf("duplicate instance %q", id), nil)
		}
		seen[id] = struct{}{}
	}

	return file.Instances, nil
}

// LoadInstances reads the instances file at path, an empty path yields no
// instances.
func LoadInstances(path string) ([]InstanceSpec, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewConfigurationError("config.LoadInstances", "failed to open instances file", err)
	}
	defer f.Close()

	return ParseInstances(f)
}
