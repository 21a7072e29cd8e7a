// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring/prometheus"
)

func TestMetricsEndpoint(t *testing.T) {
	logger := logging.NewNoopLogger()

	monitor := prometheus.NewMonitor("db-federation-service-test", logger)
	if err := monitor.AddSyncRecordsMetric(map[string]string{"instance": "erp", "outcome": "added"}, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mux := chi.NewMux()
	NewAPI(logger).RegisterEndpoints(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v0/metrics", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status code 200, got %d", w.Code)
	}

	if !strings.Contains(w.Body.String(), "federation_sync_records_total") {
		t.Fatal("expected sync counter in the exposition")
	}
}
