// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
	"github.com/canonical/db-federation-service/internal/tracing"
)

//go:generate mockgen -build_flags=--mod=mod -package authentication -destination ./mock_verifier.go -source=./interfaces.go

func TestMiddleware_Authenticate(t *testing.T) {
	tests := []struct {
		name               string
		authHeader         string
		setupMocks         func(*MockTokenVerifierInterface)
		expectedStatusCode int
		expectedPrincipal  string
	}{
		{
			name:               "Missing token - rejects request",
			authHeader:         "",
			setupMocks:         func(*MockTokenVerifierInterface) {},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "Invalid token format - rejects request",
			authHeader:         "InvalidToken",
			setupMocks:         func(*MockTokenVerifierInterface) {},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "Token verification fails - rejects request",
			authHeader: "Bearer invalid-token",
			setupMocks: func(v *MockTokenVerifierInterface) {
				v.EXPECT().VerifyToken(gomock.Any(), "invalid-token").Return("", fmt.Errorf("invalid token"))
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "Subject not allowed - rejects request",
			authHeader: "Bearer other-token",
			setupMocks: func(v *MockTokenVerifierInterface) {
				v.EXPECT().VerifyToken(gomock.Any(), "other-token").Return("", ErrSubjectNotAllowed)
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "Valid token - passes principal on",
			authHeader: "Bearer valid-token",
			setupMocks: func(v *MockTokenVerifierInterface) {
				v.EXPECT().VerifyToken(gomock.Any(), "valid-token").Return("admin-client", nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedPrincipal:  "admin-client",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			logger := logging.NewNoopLogger()
			mockVerifier := NewMockTokenVerifierInterface(ctrl)
			tt.setupMocks(mockVerifier)

			middleware := NewMiddleware(mockVerifier, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

			var principal string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				principal = PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v0/instances", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			middleware.Authenticate()(handler).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatusCode {
				t.Errorf("expected status %d, got %d", tt.expectedStatusCode, rr.Code)
			}

			if principal != tt.expectedPrincipal {
				t.Errorf("expected principal %q, got %q", tt.expectedPrincipal, principal)
			}
		})
	}
}

func TestMiddleware_GetBearerToken(t *testing.T) {
	tests := []struct {
		name          string
		authHeader    string
		expectedToken string
		expectedFound bool
	}{
		{
			name:          "No Authorization header",
			authHeader:    "",
			expectedToken: "",
			expectedFound: false,
		},
		{
			name:          "Bearer token",
			authHeader:    "Bearer my-token-123",
			expectedToken: "my-token-123",
			expectedFound: true,
		},
		{
			name:          "Raw token without Bearer prefix",
			authHeader:    "my-token-123",
			expectedToken: "",
			expectedFound: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			logger := logging.NewNoopLogger()
			middleware := NewMiddleware(NewNoopVerifier(), tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

			headers := http.Header{}
			if test.authHeader != "" {
				headers.Set("Authorization", test.authHeader)
			}

			token, found := middleware.getBearerToken(headers)

			if token != test.expectedToken {
				t.Errorf("expected token %q, got %q", test.expectedToken, token)
			}
			if found != test.expectedFound {
				t.Errorf("expected found %v, got %v", test.expectedFound, found)
			}
		})
	}
}

func TestConfig_NewConfig(t *testing.T) {
	tests := []struct {
		name                 string
		allowedSubjects      string
		expectedSubjectsLen  int
		expectedFirstSubject string
	}{
		{
			name:                "Empty subjects",
			allowedSubjects:     "",
			expectedSubjectsLen: 0,
		},
		{
			name:                 "Single subject",
			allowedSubjects:      "subject-1",
			expectedSubjectsLen:  1,
			expectedFirstSubject: "subject-1",
		},
		{
			name:                 "Multiple subjects",
			allowedSubjects:      "subject-1,subject-2,subject-3",
			expectedSubjectsLen:  3,
			expectedFirstSubject: "subject-1",
		},
		{
			name:                 "Subjects with spaces and empty entries",
			allowedSubjects:      "subject-1, subject-2 ,, subject-3",
			expectedSubjectsLen:  3,
			expectedFirstSubject: "subject-1",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := NewConfig("https://issuer.example.com", "", test.allowedSubjects, "")

			if len(config.AllowedSubjects) != test.expectedSubjectsLen {
				t.Errorf("expected %d subjects, got %d", test.expectedSubjectsLen, len(config.AllowedSubjects))
			}

			if test.expectedSubjectsLen > 0 && config.AllowedSubjects[0] != test.expectedFirstSubject {
				t.Errorf("expected first subject %q, got %q", test.expectedFirstSubject, config.AllowedSubjects[0])
			}

			if test.expectedSubjectsLen == 0 && !config.subjectAllowed("anyone") {
				t.Error("expected every subject to be allowed without an allow list")
			}
		})
	}
}

func TestPrincipalFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if p := PrincipalFromContext(req.Context()); p != "anonymous" {
		t.Fatalf("expected anonymous, got %q", p)
	}

	if p := PrincipalFromContext(WithPrincipal(req.Context(), "svc")); p != "svc" {
		t.Fatalf("expected svc, got %q", p)
	}
}
