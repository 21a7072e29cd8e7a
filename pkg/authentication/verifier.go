// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
)

var (
	ErrSubjectNotAllowed = errors.New("token subject is not allowed")
	ErrMissingScope      = errors.New("token is missing the required scope")
)

type scopeClaims struct {
	Scope string   `json:"scope"`
	Scp   []string `json:"scp"`
}

func (c scopeClaims) has(scope string) bool {
	return slices.Contains(strings.Fields(c.Scope), scope) || slices.Contains(c.Scp, scope)
}

var _ TokenVerifierInterface = (*JWTVerifier)(nil)

type JWTVerifier struct {
	verifier *oidc.IDTokenVerifier
	config   *Config

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (v *JWTVerifier) VerifyToken(ctx context.Context, rawToken string) (string, error) {
	ctx, span := v.tracer.Start(ctx, "authentication.JWTVerifier.VerifyToken")
	defer span.End()

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", err
	}

	if !v.config.subjectAllowed(token.Subject) {
		return "", fmt.Errorf("%w: %s", ErrSubjectNotAllowed, token.Subject)
	}

	if v.config.RequiredScope == "" {
		return token.Subject, nil
	}

	var claims scopeClaims
	if err := token.Claims(&claims); err != nil {
		return "", fmt.Errorf("failed to parse token claims: %v", err)
	}

	if !claims.has(v.config.RequiredScope) {
		return "", fmt.Errorf("%w: %s", ErrMissingScope, v.config.RequiredScope)
	}

	return token.Subject, nil
}

func NewJWTVerifier(provider ProviderInterface, config *Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *JWTVerifier {
	return NewJWTVerifierDirect(provider.Verifier(verifierConfig()), config, tracer, monitor, logger)
}

func NewJWTVerifierDirect(verifier *oidc.IDTokenVerifier, config *Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *JWTVerifier {
	v := new(JWTVerifier)

	v.verifier = verifier
	v.config = config

	v.tracer = tracer
	v.monitor = monitor
	v.logger = logger

	return v
}
