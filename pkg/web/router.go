// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/canonical/db-federation-service/internal/db"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/pkg/authentication"
	"github.com/canonical/db-federation-service/pkg/federation"
	"github.com/canonical/db-federation-service/pkg/metrics"
	"github.com/canonical/db-federation-service/pkg/status"
)

func NewRouter(
	authenticationEnabled bool,
	service federation.ServiceInterface,
	dbClient db.DBClientInterface,
	checks map[string]status.Check,
	jwtVerifier authentication.TokenVerifierInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS([]string{"*"}),
		middleware.RequestLogger(logging.NewLogFormatter(logger)), // LogFormatter will only work if logger is set to DEBUG level
	)

	router.Use(middlewares...)

	healthChecks := make(map[string]status.Check, len(checks)+1)
	for name, check := range checks {
		healthChecks[name] = check
	}

	if dbClient != nil {
		healthChecks["local_store"] = dbClient.DB().PingContext
	}

	// instance administration and user operations are protected by the JWT middleware
	router.Group(func(r chi.Router) {
		if authenticationEnabled {
			r.Use(authentication.NewMiddleware(jwtVerifier, tracer, monitor, logger).Authenticate())
		}

		federation.NewAPI(service, dbClient, tracer, monitor, logger).RegisterEndpoints(r)
	})

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(healthChecks, tracer, monitor, logger).RegisterEndpoints(router)

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}

func middlewareCORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(
		cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300,
		},
	)
}
