// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/db-federation-service/internal/http/types"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/internal/version"
)

const (
	okValue       = "ok"
	degradedValue = "degraded"

	pingTimeout = 2 * time.Second
)

// Check reports whether a dependency is reachable.
type Check func(context.Context) error

type Status struct {
	Status    string          `json:"status"`
	BuildInfo *BuildInfo      `json:"buildInfo,omitempty"`
	Checks    map[string]bool `json:"checks,omitempty"`
}

type BuildInfo struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	Name       string `json:"name"`
}

type API struct {
	checks map[string]Check

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/version", a.version)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.alive")
	defer span.End()

	status := Status{Status: okValue, Checks: map[string]bool{}}
	code := http.StatusOK

	for component, check := range a.checks {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		available := check(pingCtx) == nil
		cancel()

		status.Checks[component] = available

		value := 1.0
		if !available {
			value = 0
			status.Status = degradedValue
			code = http.StatusServiceUnavailable
		}

		if err := a.monitor.SetDependencyAvailability(map[string]string{"component": component}, value); err != nil {
			a.logger.Debugf("error setting dependency metric: %s", err)
		}
	}

	a.write(w, code, "Status", status)
}

func (a *API) version(w http.ResponseWriter, r *http.Request) {
	_, span := a.tracer.Start(r.Context(), "status.API.version")
	defer span.End()

	a.write(w, http.StatusOK, "Version", Status{Status: okValue, BuildInfo: buildInfo()})
}

func (a *API) write(w http.ResponseWriter, code int, message string, status Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	json.NewEncoder(w).Encode(
		types.Response{
			Data:    status,
			Message: message,
			Status:  code,
		},
	)
}

func buildInfo() *BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	b := new(BuildInfo)
	b.Version = version.Version
	b.Name = info.Main.Path

	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			b.CommitHash = s.Value
		}
	}

	return b
}

// NewAPI builds the status endpoints, each check is run on every status
// request and a failing one marks the service as degraded.
func NewAPI(checks map[string]Check, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.checks = checks

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
