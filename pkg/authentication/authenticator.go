// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"

	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
)

// NewJWTAuthenticator initializes a JWT token verifier based on configuration.
// Returns a noop verifier if disabled, or a real verifier if enabled.
func NewJWTAuthenticator(
	ctx context.Context,
	enabled bool,
	config *Config,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (TokenVerifierInterface, error) {
	if !enabled {
		logger.Info("JWT authentication is disabled")
		return NewNoopVerifier(), nil
	}

	if config.Issuer == "" {
		return nil, fmt.Errorf("AUTHENTICATION_ENABLED is true but AUTHENTICATION_ISSUER is not configured")
	}

	if config.JwksURL != "" {
		logger.Infof("Using manual JWKS URL: %s", config.JwksURL)
		verifier := NewProviderWithJWKS(ctx, config.Issuer, config.JwksURL)
		return NewJWTVerifierDirect(verifier, config, tracer, monitor, logger), nil
	}

	logger.Infof("Using OIDC discovery for issuer: %s", config.Issuer)
	provider, err := NewProvider(ctx, config.Issuer)
	if err != nil {
		return nil, err
	}

	return NewJWTVerifier(provider, config, tracer, monitor, logger), nil
}
