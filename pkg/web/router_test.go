// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/pkg/authentication"
	"github.com/canonical/db-federation-service/pkg/federation"
)

func TestRouterAuthentication(t *testing.T) {
	tests := []struct {
		name               string
		enabled            bool
		target             string
		authHeader         string
		setupMocks         func(*authentication.MockTokenVerifierInterface, *federation.MockServiceInterface)
		expectedStatusCode int
	}{
		{
			name:    "authentication disabled",
			enabled: false,
			target:  "/api/v0/instances",
			setupMocks: func(_ *authentication.MockTokenVerifierInterface, s *federation.MockServiceInterface) {
				s.EXPECT().ListInstances(gomock.Any()).Return([]*federation.InstanceView{})
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "missing token",
			enabled:            true,
			target:             "/api/v0/instances",
			setupMocks:         func(*authentication.MockTokenVerifierInterface, *federation.MockServiceInterface) {},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			enabled:    true,
			target:     "/api/v0/instances",
			authHeader: "Bearer good",
			setupMocks: func(v *authentication.MockTokenVerifierInterface, s *federation.MockServiceInterface) {
				v.EXPECT().VerifyToken(gomock.Any(), "good").Return("admin-client", nil)
				s.EXPECT().ListInstances(gomock.Any()).Return([]*federation.InstanceView{})
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "status is public",
			enabled:            true,
			target:             "/api/v0/status",
			setupMocks:         func(*authentication.MockTokenVerifierInterface, *federation.MockServiceInterface) {},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "metrics are public",
			enabled:            true,
			target:             "/api/v0/metrics",
			setupMocks:         func(*authentication.MockTokenVerifierInterface, *federation.MockServiceInterface) {},
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			logger := logging.NewNoopLogger()
			verifier := authentication.NewMockTokenVerifierInterface(ctrl)
			service := federation.NewMockServiceInterface(ctrl)
			tt.setupMocks(verifier, service)

			router := NewRouter(
				tt.enabled,
				service,
				nil,
				nil,
				verifier,
				tracing.NewNoopTracer(),
				monitoring.NewNoopMonitor("test", logger),
				logger,
			)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatusCode {
				t.Fatalf("expected status code %d, got %d", tt.expectedStatusCode, w.Code)
			}
		})
	}
}
